// Package fcm delivers push notifications through the Firebase Cloud Messaging HTTP v1 API.
package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/model"
)

const (
	// MaxBatchSize is the largest multicast FCM accepts.
	MaxBatchSize = 500

	messagingScope     = "https://www.googleapis.com/auth/firebase.messaging"
	defaultParallelism = 16
	fcmErrorType       = "type.googleapis.com/google.firebase.fcm.v1.FcmError"

	// ErrorCodeUnavailable marks a token whose request got no response.
	ErrorCodeUnavailable = "UNAVAILABLE"
)

var _ model.PushGateway = (*Client)(nil)

// Options configures a Client.
type Options struct {
	Endpoint  string
	ProjectID string
	// Parallelism bounds concurrent per-token requests of one multicast.
	Parallelism int
}

// Client sends messages one request per token, like sendEachForMulticast.
type Client struct {
	httpClient  *http.Client
	sendURL     string
	parallelism int
	logger      *logger.Logger
}

// NewClientFromCredentials builds an authorized client from a service account
// file, or from application default credentials when credentialsFile is empty.
func NewClientFromCredentials(ctx context.Context, credentialsFile string, opts Options, logger *logger.Logger) (*Client, error) {
	var (
		creds *google.Credentials
		err   error
	)
	if credentialsFile != "" {
		data, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read fcm credentials: %w", readErr)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, messagingScope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, messagingScope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fcm credentials: %w", err)
	}

	if opts.ProjectID == "" {
		opts.ProjectID = creds.ProjectID
	}

	return NewClient(oauth2.NewClient(ctx, creds.TokenSource), opts, logger), nil
}

// NewClient wraps an HTTP client that already authorizes requests.
func NewClient(httpClient *http.Client, opts Options, logger *logger.Logger) *Client {
	if opts.Parallelism <= 0 {
		opts.Parallelism = defaultParallelism
	}
	return &Client{
		httpClient:  httpClient,
		sendURL:     fmt.Sprintf("%s/v1/projects/%s/messages:send", strings.TrimRight(opts.Endpoint, "/"), opts.ProjectID),
		parallelism: opts.Parallelism,
		logger:      logger,
	}
}

// MaxBatchSize returns the FCM multicast limit.
func (c *Client) MaxBatchSize() int {
	return MaxBatchSize
}

// SendMulticast sends notification to each token. Per-token rejections and
// transport failures are reported in the results; the call fails only when
// ctx is done.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, notification model.Notification) ([]model.SendResult, error) {
	if len(tokens) > MaxBatchSize {
		return nil, fmt.Errorf("multicast of %d tokens exceeds limit of %d", len(tokens), MaxBatchSize)
	}

	results := make([]model.SendResult, len(tokens))

	var g errgroup.Group
	g.SetLimit(c.parallelism)
	for i, token := range tokens {
		g.Go(func() error {
			res, err := c.send(ctx, message{Token: token, Notification: toNotification(notification), Data: notification.Data, Android: androidConfig(notification)})
			if err != nil {
				c.logger.Debug("FCM client: message not delivered",
					"error", err)
				res = model.SendResult{ErrorCode: ErrorCodeUnavailable}
			}
			res.Token = token
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to send multicast: %w", err)
	}

	return results, nil
}

// SendToTopic sends notification to every device subscribed to topic.
func (c *Client) SendToTopic(ctx context.Context, topic string, notification model.Notification) error {
	res, err := c.send(ctx, message{Topic: topic, Notification: toNotification(notification), Data: notification.Data, Android: androidConfig(notification)})
	if err != nil {
		return fmt.Errorf("failed to send to topic: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("fcm rejected topic message: %s", res.ErrorCode)
	}
	return nil
}

// send returns an error only when no HTTP response was received.
func (c *Client) send(ctx context.Context, msg message) (model.SendResult, error) {
	body, err := json.Marshal(sendRequest{Message: msg})
	if err != nil {
		return model.SendResult{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendURL, bytes.NewReader(body))
	if err != nil {
		return model.SendResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.SendResult{}, fmt.Errorf("failed to call fcm: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.SendResult{}, fmt.Errorf("failed to read fcm response: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return model.SendResult{Success: true}, nil
	}

	code := errorCode(resp.StatusCode, payload)
	c.logger.Debug("FCM client: message rejected",
		"status", resp.StatusCode,
		"error_code", code)

	return model.SendResult{ErrorCode: code}, nil
}

func errorCode(status int, payload []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(payload, &resp); err == nil {
		for _, detail := range resp.Error.Details {
			if detail.Type == fcmErrorType && detail.ErrorCode != "" {
				return detail.ErrorCode
			}
		}
		if resp.Error.Status != "" {
			return resp.Error.Status
		}
	}
	return fmt.Sprintf("HTTP_%d", status)
}

func toNotification(n model.Notification) *notification {
	return &notification{Title: n.Title, Body: n.Body}
}

func androidConfig(n model.Notification) *android {
	clickAction := n.Data["click_action"]
	if clickAction == "" {
		return nil
	}
	return &android{Notification: &androidNotification{ClickAction: clickAction}}
}
