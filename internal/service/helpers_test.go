package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/mocks"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/secret"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/testutil"
)

var testNow = time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func testHasher(t *testing.T) *secret.Hasher {
	t.Helper()
	h, err := secret.NewHasher("test-pepper")
	require.NoError(t, err)
	return h
}

// auditRecorder collects audit events written through a mock store.
type auditRecorder struct {
	mu     sync.Mutex
	events []model.AuditEvent
}

func (r *auditRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

func (r *auditRecorder) last(eventType string) (model.AuditEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EventType == eventType {
			return r.events[i], true
		}
	}
	return model.AuditEvent{}, false
}

func newTestAudit(t *testing.T) (*Audit, *auditRecorder) {
	t.Helper()
	rec := &auditRecorder{}
	store := mocks.NewAuditStore(t)
	store.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.events = append(rec.events, args.Get(1).(model.AuditEvent))
	}).Return(nil).Maybe()

	a := NewAudit(store, testutil.MakeNoopLogger())
	a.now = fixedClock
	return a, rec
}
