package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/admissions-server/internal/metrics"
	"github.com/dtroode/admissions-server/internal/mocks"
	"github.com/dtroode/admissions-server/internal/model"
	"github.com/dtroode/admissions-server/internal/testutil"
)

// recordingGateway records every batch and fails tokens listed in rejected.
type recordingGateway struct {
	mu        sync.Mutex
	maxBatch  int
	batches   [][]string
	rejected  map[string]string
	failBatch func(tokens []string) bool
	last      model.Notification
}

func (g *recordingGateway) SendMulticast(_ context.Context, tokens []string, n model.Notification) ([]model.SendResult, error) {
	g.mu.Lock()
	g.batches = append(g.batches, append([]string(nil), tokens...))
	g.last = n
	g.mu.Unlock()

	if g.failBatch != nil && g.failBatch(tokens) {
		return nil, errors.New("gateway unavailable")
	}

	results := make([]model.SendResult, len(tokens))
	for i, token := range tokens {
		if code, ok := g.rejected[token]; ok {
			results[i] = model.SendResult{Token: token, ErrorCode: code}
			continue
		}
		results[i] = model.SendResult{Token: token, Success: true}
	}
	return results, nil
}

func (g *recordingGateway) SendToTopic(context.Context, string, model.Notification) error {
	return nil
}

func (g *recordingGateway) MaxBatchSize() int {
	return g.maxBatch
}

func (g *recordingGateway) sentTokens() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var all []string
	for _, b := range g.batches {
		all = append(all, b...)
	}
	sort.Strings(all)
	return all
}

func newTestFanout(profiles model.ProfileStore, gateway model.PushGateway, batchSize int, m *metrics.Metrics) *Fanout {
	log := testutil.MakeNoopLogger()
	return NewFanout(NewAudienceResolver(profiles, log), profiles, gateway, FanoutConfig{
		LookupParallelism: 4,
		BatchParallelism:  2,
		BatchSize:         batchSize,
	}, m, log)
}

func TestFanout_Dispatch_DisjointClasses(t *testing.T) {
	profiles := mocks.NewProfileStore(t)
	classA := []uuid.UUID{uuid.New(), uuid.New()}
	classB := []uuid.UUID{uuid.New()}

	profiles.On("ListIdentityIDsByClass", mock.Anything, "class-a").Return(classA, nil).Once()
	profiles.On("GetDeliveryToken", mock.Anything, classA[0]).Return("token-a0", nil).Once()
	profiles.On("GetDeliveryToken", mock.Anything, classA[1]).Return("token-a1", nil).Once()

	gateway := &recordingGateway{maxBatch: 500}
	f := newTestFanout(profiles, gateway, 500, newTestMetrics())

	report := f.Dispatch(context.Background(), model.NotificationEvent{
		ScopeID:     "class-a",
		ItemID:      "item-1",
		SubjectType: "assignment",
		ScopeName:   "Class 7A",
		Title:       "Fractions worksheet",
	})

	assert.Equal(t, 2, report.Recipients)
	assert.Equal(t, 2, report.Delivered)
	assert.Equal(t, []string{"token-a0", "token-a1"}, gateway.sentTokens())
	profiles.AssertNotCalled(t, "GetDeliveryToken", mock.Anything, classB[0])
}

func TestFanout_Dispatch_EmptyAudience(t *testing.T) {
	profiles := mocks.NewProfileStore(t)
	profiles.On("ListIdentityIDsByClass", mock.Anything, "class-empty").Return([]uuid.UUID{}, nil).Once()
	gateway := mocks.NewPushGateway(t)

	f := newTestFanout(profiles, gateway, 500, newTestMetrics())
	report := f.Dispatch(context.Background(), model.NotificationEvent{ScopeID: "class-empty"})

	assert.Equal(t, model.DispatchReport{ScopeID: "class-empty"}, report)
	gateway.AssertNotCalled(t, "SendMulticast", mock.Anything, mock.Anything, mock.Anything)
}

func TestFanout_Dispatch_NoTokens(t *testing.T) {
	profiles := mocks.NewProfileStore(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	profiles.On("ListIdentityIDsByClass", mock.Anything, "class-x").Return(ids, nil).Once()
	profiles.On("GetDeliveryToken", mock.Anything, ids[0]).Return("", nil).Once()
	profiles.On("GetDeliveryToken", mock.Anything, ids[1]).Return("", model.ErrNotFound).Once()

	gateway := &recordingGateway{maxBatch: 500}
	f := newTestFanout(profiles, gateway, 500, newTestMetrics())
	report := f.Dispatch(context.Background(), model.NotificationEvent{ScopeID: "class-x"})

	assert.Equal(t, 2, report.Recipients)
	assert.Zero(t, report.Attempted)
	assert.Empty(t, gateway.batches)
}

func TestFanout_Dispatch_PartialFailures(t *testing.T) {
	profiles := mocks.NewProfileStore(t)
	ids := make([]uuid.UUID, 7)
	for i := range ids {
		ids[i] = uuid.New()
	}
	profiles.On("ListIdentityIDsByClass", mock.Anything, "class-9c").Return(ids, nil).Once()
	tokens := map[uuid.UUID]string{
		ids[0]: "t0",
		ids[1]: "t1",
		ids[2]: "t2",
		ids[3]: "t3",
		ids[4]: "t1", // siblings sharing a device
		ids[5]: "",
	}
	for id, token := range tokens {
		profiles.On("GetDeliveryToken", mock.Anything, id).Return(token, nil).Once()
	}
	profiles.On("GetDeliveryToken", mock.Anything, ids[6]).Return("", errors.New("lookup timeout")).Once()

	gateway := &recordingGateway{
		maxBatch: 2,
		rejected: map[string]string{"t1": "UNREGISTERED"},
		failBatch: func(batch []string) bool {
			for _, token := range batch {
				if token == "t3" {
					return true
				}
			}
			return false
		},
	}
	m := newTestMetrics()
	f := newTestFanout(profiles, gateway, 500, m)

	report := f.Dispatch(context.Background(), model.NotificationEvent{ScopeID: "class-9c", ItemID: "quiz-3", SubjectType: "quiz"})

	assert.Equal(t, 7, report.Recipients)
	assert.Equal(t, 4, report.Attempted)
	assert.Equal(t, report.Attempted, report.Delivered+report.Failed)
	assert.Equal(t, []string{"t0", "t1", "t2", "t3"}, gateway.sentTokens())
	for _, batch := range gateway.batches {
		assert.LessOrEqual(t, len(batch), 2)
	}

	failed := map[string]string{}
	for _, failure := range report.Failures {
		failed[failure.Token] = failure.ErrorCode
	}
	assert.Equal(t, "UNREGISTERED", failed["t1"])
	assert.Equal(t, BatchFailureCode, failed["t3"])
	assert.Equal(t, float64(1), prom.ToFloat64(m.BatchFailures))
	assert.Equal(t, float64(report.Delivered), prom.ToFloat64(m.NotificationsSent.WithLabelValues("delivered")))
}

func TestFanout_Dispatch_AudienceError(t *testing.T) {
	profiles := mocks.NewProfileStore(t)
	profiles.On("ListIdentityIDsByClass", mock.Anything, "class-1").Return(nil, errors.New("db down")).Once()

	f := newTestFanout(profiles, mocks.NewPushGateway(t), 500, newTestMetrics())
	report := f.Dispatch(context.Background(), model.NotificationEvent{ScopeID: "class-1"})

	assert.Zero(t, report.Attempted)
}

func TestFanout_BuildNotification(t *testing.T) {
	f := newTestFanout(mocks.NewProfileStore(t), &recordingGateway{}, 500, newTestMetrics())

	tests := []struct {
		name      string
		event     model.NotificationEvent
		wantTitle string
		wantBody  string
	}{
		{
			name:      "named scope",
			event:     model.NotificationEvent{ScopeID: "c1", ItemID: "i1", SubjectType: "study_material", ScopeName: "Class 5B", Title: "Water cycle notes"},
			wantTitle: "New Study Material in Class 5B",
			wantBody:  "Water cycle notes",
		},
		{
			name:      "unnamed scope falls back",
			event:     model.NotificationEvent{ScopeID: "c1", ItemID: "i2", SubjectType: "assignment", Body: "Due Friday"},
			wantTitle: "New Assignment in your class",
			wantBody:  "Due Friday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := f.buildNotification(tt.event)

			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.wantBody, n.Body)
			assert.Equal(t, tt.event.ScopeID, n.Data["scope_id"])
			assert.Equal(t, tt.event.ItemID, n.Data["item_id"])
			assert.Equal(t, "FLUTTER_NOTIFICATION_CLICK", n.Data["click_action"])
		})
	}
}

func TestPartition(t *testing.T) {
	batches := partition([]string{"a", "b", "c", "d", "e"}, 2)

	require.Len(t, batches, 3)
	assert.Equal(t, []string{"e"}, batches[2])
}

func TestAudienceResolver_BlankScope(t *testing.T) {
	r := NewAudienceResolver(mocks.NewProfileStore(t), testutil.MakeNoopLogger())

	ids, err := r.ResolveAudience(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
