// Package email sends transactional emails.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/mrz1836/postmark"

	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/model"
)

const passwordResetTag = "password-reset"

var (
	// ErrInvalidConfig is returned when the sender cannot be constructed.
	ErrInvalidConfig = errors.New("invalid email configuration")
	// ErrFailedToSendEmail is returned when the provider rejects a message.
	ErrFailedToSendEmail = errors.New("failed to send email")
)

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello,</p>
<p>A password reset was requested for your {{.School}} account.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>If you did not expect this email, you can ignore it.</p>
<p>{{.School}}</p>
</body>
</html>`))

type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

var (
	_ model.EmailSender = (*PostmarkSender)(nil)
	_ postmarkAPI       = (*postmark.Client)(nil)
)

// Config holds sender identity and Postmark credentials.
type Config struct {
	ServerToken  string
	AccountToken string
	SenderEmail  string
	SchoolName   string
}

// PostmarkSender delivers emails through Postmark.
type PostmarkSender struct {
	client postmarkAPI
	config Config
}

// NewPostmarkSender creates a Postmark-backed sender.
func NewPostmarkSender(cfg Config) (*PostmarkSender, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: server token is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: sender email is required", ErrInvalidConfig)
	}

	return &PostmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		config: cfg,
	}, nil
}

// SendPasswordReset emails the reset link to the account owner.
func (s *PostmarkSender) SendPasswordReset(ctx context.Context, to string, link string) error {
	body, err := renderPasswordReset(s.config.SchoolName, link)
	if err != nil {
		return err
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.config.SenderEmail,
		To:         to,
		Subject:    fmt.Sprintf("Reset your %s password", s.config.SchoolName),
		Tag:        passwordResetTag,
		HTMLBody:   body,
		TrackOpens: false,
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}

	return nil
}

// LogSender writes emails to the log instead of sending them.
// It is used when no Postmark token is configured.
type LogSender struct {
	logger *logger.Logger
}

var _ model.EmailSender = (*LogSender)(nil)

func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendPasswordReset(_ context.Context, to string, link string) error {
	s.logger.Info("Email: password reset link",
		"to", to,
		"link", link)
	return nil
}

func renderPasswordReset(school, link string) (string, error) {
	var buf bytes.Buffer
	err := passwordResetTemplate.Execute(&buf, struct {
		School string
		Link   string
	}{School: school, Link: link})
	if err != nil {
		return "", fmt.Errorf("failed to render password reset email: %w", err)
	}
	return buf.String(), nil
}
