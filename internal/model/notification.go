package model

import (
	"context"

	"github.com/google/uuid"
)

// PushGateway delivers push notifications to device tokens.
type PushGateway interface {
	// SendMulticast sends one notification to every token and returns one
	// result per token in input order. An error means the whole call failed.
	SendMulticast(ctx context.Context, tokens []string, notification Notification) ([]SendResult, error)
	SendToTopic(ctx context.Context, topic string, notification Notification) error
	// MaxBatchSize is the largest number of tokens accepted by one SendMulticast call.
	MaxBatchSize() int
}

// ContentStream delivers content-creation events to registered handlers.
type ContentStream interface {
	Subscribe(ctx context.Context, handler ContentHandler) error
}

// ContentHandler is invoked once per created content item.
type ContentHandler interface {
	HandleContentCreated(ctx context.Context, event NotificationEvent)
	HandleAnnouncementCreated(ctx context.Context, announcement Announcement)
}

// NotificationEvent describes a content item created in a scope (class) stream.
type NotificationEvent struct {
	ScopeID     string
	ItemID      string
	SubjectType string
	ScopeName   string
	Title       string
	Body        string
}

// Announcement is a broadcast message addressed to a topic or a single device.
type Announcement struct {
	Title string
	Body  string
	Topic string
	Token string
}

// Notification is the payload delivered to devices.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// SendResult is the outcome of delivering to a single token.
type SendResult struct {
	Token     string
	Success   bool
	ErrorCode string
}

// Recipient is an audience member with the endpoint to reach them.
type Recipient struct {
	IdentityID    uuid.UUID
	DeliveryToken string
}

// TokenFailure records why delivery to a token failed.
type TokenFailure struct {
	Token     string
	ErrorCode string
}

// DispatchReport summarizes one fan-out run.
type DispatchReport struct {
	ScopeID    string
	Recipients int
	Attempted  int
	Delivered  int
	Failed     int
	Failures   []TokenFailure
}
