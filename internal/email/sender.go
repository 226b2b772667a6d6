package email

import "context"

// Sender is satisfied by SESClient and by test fakes.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
	SendFrom(ctx context.Context, recipient, subject, body, sender string) error
}
