package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type sentMessage struct {
	recipient string
	subject   string
	body      string
	ctxErr    error
}

type fakeEmailSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	done    chan struct{}
	failFor string
}

func newFakeEmailSender(expected int) *fakeEmailSender {
	return &fakeEmailSender{done: make(chan struct{}, expected)}
}

func (f *fakeEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	f.mu.Lock()
	f.sent = append(f.sent, sentMessage{recipient: recipient, subject: subject, body: body, ctxErr: ctx.Err()})
	f.mu.Unlock()
	f.done <- struct{}{}
	if recipient == f.failFor {
		return errors.New("mailbox unavailable")
	}
	return nil
}

func (f *fakeEmailSender) SendFrom(ctx context.Context, recipient, subject, body, _ string) error {
	return f.Send(ctx, recipient, subject, body)
}

func (f *fakeEmailSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func waitForSends(t *testing.T, sender *fakeEmailSender, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		select {
		case <-sender.done:
		case <-time.After(time.Second):
			t.Fatalf("expected %d sends, got %d", count, len(sender.messages()))
		}
	}
}

func TestSendFinalScore_DeduplicatesRecipients(t *testing.T) {
	sender := newFakeEmailSender(2)
	SendFinalScore(context.Background(), sender, []string{"cap@hawks.test", " ", "CAP@hawks.test", "cap@owls.test"}, FinalScore{
		HomeTeam:  "Hawks",
		AwayTeam:  "Owls",
		HomeScore: 80,
		AwayScore: 70,
	}, nil)

	waitForSends(t, sender, 2)
	messages := sender.messages()
	if messages[0].recipient != "cap@hawks.test" || messages[1].recipient != "cap@owls.test" {
		t.Fatalf("unexpected recipients: %+v", messages)
	}
	if messages[0].subject != "Final: Hawks def. Owls 80-70" {
		t.Fatalf("unexpected subject %q", messages[0].subject)
	}
}

func TestSendFinalScore_SurvivesCanceledRequestContext(t *testing.T) {
	sender := newFakeEmailSender(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	SendFinalScore(ctx, sender, []string{"cap@hawks.test"}, FinalScore{HomeTeam: "Hawks", AwayTeam: "Owls", HomeScore: 60, AwayScore: 61}, nil)

	waitForSends(t, sender, 1)
	if err := sender.messages()[0].ctxErr; err != nil {
		t.Fatalf("expected detached context, got %v", err)
	}
}

func TestSendFinalScore_ContinuesAfterFailure(t *testing.T) {
	sender := newFakeEmailSender(2)
	sender.failFor = "first@test.com"

	SendFinalScore(context.Background(), sender, []string{"first@test.com", "second@test.com"}, FinalScore{}, nil)

	waitForSends(t, sender, 2)
}

func TestSendFinalScore_NoRecipientsOrSender(t *testing.T) {
	sender := newFakeEmailSender(1)
	SendFinalScore(context.Background(), sender, nil, FinalScore{}, nil)
	SendFinalScore(context.Background(), nil, []string{"a@test.com"}, FinalScore{}, nil)

	select {
	case <-sender.done:
		t.Fatalf("expected no send")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBuildFinalScoreEmail(t *testing.T) {
	played := time.Date(2024, 1, 9, 19, 30, 0, 0, time.UTC)
	message := BuildFinalScoreEmail(FinalScore{
		LeagueName:   "Metro Hoops",
		SeasonName:   "Winter 2024",
		HomeTeam:     "Hawks",
		AwayTeam:     "Owls",
		HomeScore:    58,
		AwayScore:    64,
		Venue:        "Main Gym",
		PlayedAt:     played,
		StandingsURL: "https://league.test/seasons/1/standings",
	})

	if message.Subject != "Final: Owls def. Hawks 64-58 - Metro Hoops" {
		t.Fatalf("unexpected subject %q", message.Subject)
	}
	for _, want := range []string{
		"Season: Winter 2024",
		"Played: Tuesday, Jan 9, 2024 at 7:30 PM UTC",
		"Venue: Main Gym",
		"Updated standings: https://league.test/seasons/1/standings",
	} {
		if !strings.Contains(message.Body, want) {
			t.Fatalf("expected body to contain %q, got:\n%s", want, message.Body)
		}
	}

	tie := BuildFinalScoreEmail(FinalScore{HomeScore: 70, AwayScore: 70})
	if tie.Subject != "Final: Home 70, Away 70" {
		t.Fatalf("unexpected tie subject %q", tie.Subject)
	}
	if !strings.Contains(tie.Body, "Played: TBD") || !strings.Contains(tie.Body, "Venue: TBD") {
		t.Fatalf("expected TBD placeholders, got:\n%s", tie.Body)
	}
}
