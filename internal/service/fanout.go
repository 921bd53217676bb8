package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/metrics"
	"github.com/dtroode/admissions-server/internal/model"
)

// BatchFailureCode marks tokens of a batch whose send call failed as a whole.
const BatchFailureCode = "BATCH_SEND_FAILED"

// missingResultCode marks tokens the gateway returned no result for.
const missingResultCode = "MISSING_RESULT"

const clickAction = "FLUTTER_NOTIFICATION_CLICK"

// FanoutConfig bounds the parallelism and batch size of a dispatch.
type FanoutConfig struct {
	LookupParallelism int
	BatchParallelism  int
	BatchSize         int
	CallTimeout       time.Duration
}

// Fanout delivers a notification about a content item to every student of its scope.
type Fanout struct {
	audience     *AudienceResolver
	profileStore model.ProfileStore
	gateway      model.PushGateway
	cfg          FanoutConfig
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

// NewFanout creates a Fanout.
func NewFanout(
	audience *AudienceResolver,
	profileStore model.ProfileStore,
	gateway model.PushGateway,
	cfg FanoutConfig,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Fanout {
	return &Fanout{
		audience:     audience,
		profileStore: profileStore,
		gateway:      gateway,
		cfg:          cfg,
		metrics:      metrics,
		logger:       logger,
	}
}

// Dispatch resolves the audience of event, gathers delivery tokens and sends
// the notification in batches. Failures are recorded in the report, never returned.
func (f *Fanout) Dispatch(ctx context.Context, event model.NotificationEvent) model.DispatchReport {
	report := model.DispatchReport{ScopeID: event.ScopeID}

	audience, err := f.audience.ResolveAudience(ctx, event.ScopeID)
	if err != nil {
		f.logger.Error("Fanout service: failed to resolve audience",
			"scope_id", event.ScopeID,
			"item_id", event.ItemID,
			"error", err.Error())
		return report
	}
	report.Recipients = len(audience)
	if len(audience) == 0 {
		f.logger.Info("Fanout service: no recipients",
			"scope_id", event.ScopeID,
			"item_id", event.ItemID)
		f.metrics.ObserveDispatch(report)
		return report
	}

	tokens := f.collectTokens(ctx, audience)
	if len(tokens) == 0 {
		f.logger.Info("Fanout service: no delivery tokens",
			"scope_id", event.ScopeID,
			"recipients", len(audience))
		f.metrics.ObserveDispatch(report)
		return report
	}

	notification := f.buildNotification(event)
	batches := partition(tokens, f.batchSize())
	results := make([][]model.SendResult, len(batches))

	g := new(errgroup.Group)
	g.SetLimit(f.cfg.BatchParallelism)
	for i, batch := range batches {
		g.Go(func() error {
			results[i] = f.sendBatch(ctx, batch, notification)
			return nil
		})
	}
	_ = g.Wait()

	for _, batchResults := range results {
		for _, res := range batchResults {
			report.Attempted++
			if res.Success {
				report.Delivered++
				continue
			}
			report.Failed++
			report.Failures = append(report.Failures, model.TokenFailure{Token: res.Token, ErrorCode: res.ErrorCode})
		}
	}

	f.metrics.ObserveDispatch(report)
	f.logger.Info("Fanout service: dispatch completed",
		"scope_id", event.ScopeID,
		"item_id", event.ItemID,
		"recipients", report.Recipients,
		"attempted", report.Attempted,
		"delivered", report.Delivered,
		"failed", report.Failed)

	return report
}

// collectTokens looks up delivery tokens concurrently. Lookup failures and
// empty tokens are skipped; the result holds each token once.
func (f *Fanout) collectTokens(ctx context.Context, audience []uuid.UUID) []string {
	found := make([]string, len(audience))

	g := new(errgroup.Group)
	g.SetLimit(f.cfg.LookupParallelism)
	for i, identityID := range audience {
		g.Go(func() error {
			token, err := f.profileStore.GetDeliveryToken(ctx, identityID)
			if err != nil {
				f.logger.Warn("Fanout service: failed to get delivery token",
					"identity_id", identityID,
					"error", err.Error())
				return nil
			}
			found[i] = strings.TrimSpace(token)
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{}, len(found))
	tokens := make([]string, 0, len(found))
	for _, token := range found {
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}

	return tokens
}

// sendBatch returns exactly one result per token of batch.
func (f *Fanout) sendBatch(ctx context.Context, batch []string, notification model.Notification) []model.SendResult {
	callCtx := ctx
	if f.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, f.cfg.CallTimeout)
		defer cancel()
	}

	sent, err := f.gateway.SendMulticast(callCtx, batch, notification)
	if err != nil {
		f.metrics.BatchFailures.Inc()
		f.logger.Error("Fanout service: batch send failed",
			"tokens", len(batch),
			"error", err.Error())
		return failAll(batch, BatchFailureCode)
	}

	byToken := make(map[string]model.SendResult, len(sent))
	for _, res := range sent {
		byToken[res.Token] = res
	}

	results := make([]model.SendResult, len(batch))
	for i, token := range batch {
		res, ok := byToken[token]
		if !ok {
			res = model.SendResult{Token: token, ErrorCode: missingResultCode}
		}
		results[i] = res
	}
	return results
}

func (f *Fanout) batchSize() int {
	size := f.cfg.BatchSize
	if limit := f.gateway.MaxBatchSize(); limit > 0 && (size <= 0 || limit < size) {
		size = limit
	}
	if size <= 0 {
		size = 1
	}
	return size
}

func (f *Fanout) buildNotification(event model.NotificationEvent) model.Notification {
	subject := strings.TrimSpace(strings.ReplaceAll(event.SubjectType, "_", " "))
	if subject == "" {
		subject = "content"
	}
	scopeName := strings.TrimSpace(event.ScopeName)
	if scopeName == "" {
		scopeName = "your class"
	}
	body := event.Title
	if strings.TrimSpace(body) == "" {
		body = event.Body
	}

	return model.Notification{
		Title: fmt.Sprintf("New %s in %s", cases.Title(language.English).String(subject), scopeName),
		Body:  body,
		Data: map[string]string{
			"scope_id":     event.ScopeID,
			"item_id":      event.ItemID,
			"subject_type": event.SubjectType,
			"click_action": clickAction,
		},
	}
}

func partition(tokens []string, size int) [][]string {
	batches := make([][]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := min(start+size, len(tokens))
		batches = append(batches, tokens[start:end])
	}
	return batches
}

func failAll(tokens []string, code string) []model.SendResult {
	results := make([]model.SendResult, len(tokens))
	for i, token := range tokens {
		results[i] = model.SendResult{Token: token, ErrorCode: code}
	}
	return results
}
