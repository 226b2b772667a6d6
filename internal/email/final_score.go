package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const finalScoreEmailTimeout = 10 * time.Second

// SendFinalScore notifies each distinct recipient in the background. The send
// outlives ctx cancellation so it can be started from a request handler.
func SendFinalScore(ctx context.Context, sender Sender, recipients []string, score FinalScore, logger *zerolog.Logger) {
	if sender == nil {
		return
	}
	to := uniqueRecipients(recipients)
	if len(to) == 0 {
		return
	}
	message := BuildFinalScoreEmail(score)

	go func() {
		sendCtx, cancel := newEmailContext(ctx, finalScoreEmailTimeout)
		defer cancel()
		for _, recipient := range to {
			if err := sender.Send(sendCtx, recipient, message.Subject, message.Body); err != nil {
				if logger != nil {
					logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send final score email")
				}
				continue
			}
			if logger != nil {
				logger.Debug().Str("recipient", recipient).Msg("Final score email sent")
			}
		}
	}()
}

func uniqueRecipients(recipients []string) []string {
	seen := make(map[string]struct{}, len(recipients))
	unique := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" {
			continue
		}
		key := strings.ToLower(recipient)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, recipient)
	}
	return unique
}
