package rabbitmq

import "github.com/dtroode/admissions-server/internal/model"

// Routing keys of the content exchange.
const (
	RoutingKeyContentCreated      = "content.created"
	RoutingKeyAnnouncementCreated = "announcement.created"
)

// ContentCreatedMessage is published when a post is added to a class stream.
type ContentCreatedMessage struct {
	ScopeID     string `json:"class_id"`
	ItemID      string `json:"post_id"`
	SubjectType string `json:"type"`
	ScopeName   string `json:"class_name"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

func (m ContentCreatedMessage) toEvent() model.NotificationEvent {
	return model.NotificationEvent{
		ScopeID:     m.ScopeID,
		ItemID:      m.ItemID,
		SubjectType: m.SubjectType,
		ScopeName:   m.ScopeName,
		Title:       m.Title,
		Body:        m.Body,
	}
}

// AnnouncementMessage is published when an announcement is created.
type AnnouncementMessage struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Topic    string `json:"topic"`
	FCMToken string `json:"fcm_token"`
}

func (m AnnouncementMessage) toAnnouncement() model.Announcement {
	return model.Announcement{
		Title: m.Title,
		Body:  m.Body,
		Topic: m.Topic,
		Token: m.FCMToken,
	}
}
