package service

import (
	"context"
	"strings"

	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/model"
)

var _ model.ContentHandler = (*Notifier)(nil)

// Notifier reacts to content stream events with push notifications.
type Notifier struct {
	fanout  *Fanout
	gateway model.PushGateway
	logger  *logger.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(fanout *Fanout, gateway model.PushGateway, logger *logger.Logger) *Notifier {
	return &Notifier{fanout: fanout, gateway: gateway, logger: logger}
}

// HandleContentCreated notifies the students of the scope the item was created in.
func (n *Notifier) HandleContentCreated(ctx context.Context, event model.NotificationEvent) {
	n.logger.Debug("Notifier: content created",
		"scope_id", event.ScopeID,
		"item_id", event.ItemID,
		"subject_type", event.SubjectType)

	report := n.fanout.Dispatch(ctx, event)
	if report.Failed > 0 {
		n.logger.Warn("Notifier: some notifications were not delivered",
			"scope_id", event.ScopeID,
			"item_id", event.ItemID,
			"failed", report.Failed,
			"attempted", report.Attempted)
	}
}

// HandleAnnouncementCreated sends an announcement to its topic, or to a single
// device when no topic is set. Announcements without content or target are skipped.
func (n *Notifier) HandleAnnouncementCreated(ctx context.Context, announcement model.Announcement) {
	title := strings.TrimSpace(announcement.Title)
	body := strings.TrimSpace(announcement.Body)
	if title == "" || body == "" {
		n.logger.Info("Notifier: announcement without title or body, skipping")
		return
	}

	notification := model.Notification{
		Title: title,
		Body:  body,
		Data:  map[string]string{"click_action": clickAction},
	}
	topic := strings.TrimSpace(announcement.Topic)
	token := strings.TrimSpace(announcement.Token)

	switch {
	case topic != "":
		if err := n.gateway.SendToTopic(ctx, topic, notification); err != nil {
			n.logger.Error("Notifier: failed to send announcement to topic",
				"topic", topic,
				"error", err.Error())
			return
		}
		n.logger.Info("Notifier: announcement sent to topic",
			"topic", topic)
	case token != "":
		results, err := n.gateway.SendMulticast(ctx, []string{token}, notification)
		if err != nil {
			n.logger.Error("Notifier: failed to send announcement to device",
				"error", err.Error())
			return
		}
		for _, res := range results {
			if !res.Success {
				n.logger.Warn("Notifier: announcement rejected by device",
					"error_code", res.ErrorCode)
			}
		}
	default:
		n.logger.Info("Notifier: announcement without topic or token, skipping")
	}
}
