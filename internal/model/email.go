package model

import "context"

// EmailSender delivers transactional emails.
type EmailSender interface {
	SendPasswordReset(ctx context.Context, to string, link string) error
}
