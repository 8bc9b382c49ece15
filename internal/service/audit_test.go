package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/mocks"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/testutil"
)

func TestAudit_Record(t *testing.T) {
	store := mocks.NewAuditStore(t)
	a := NewAudit(store, testutil.MakeNoopLogger())
	a.now = fixedClock

	store.On("Insert", mock.Anything, mock.MatchedBy(func(e model.AuditEvent) bool {
		return e.ID != uuid.Nil && e.CreatedAt.Equal(testNow) && e.EventType == model.EventLogout
	})).Return(errors.New("boom"))

	// failures are swallowed
	a.Record(context.Background(), model.AuditEvent{EventType: model.EventLogout})
}

func TestAudit_List(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name string
		in   model.AuditFilter
		want model.AuditFilter
	}{
		{name: "default limit", in: model.AuditFilter{}, want: model.AuditFilter{Limit: defaultAuditLimit}},
		{name: "capped limit", in: model.AuditFilter{Limit: 10_000}, want: model.AuditFilter{Limit: maxAuditLimit}},
		{name: "negative offset", in: model.AuditFilter{Limit: 5, Offset: -3}, want: model.AuditFilter{Limit: 5}},
		{name: "event type passes", in: model.AuditFilter{EventType: model.EventLoginFailed, Offset: 20}, want: model.AuditFilter{EventType: model.EventLoginFailed, Limit: defaultAuditLimit, Offset: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewAuditStore(t)
			a := NewAudit(store, testutil.MakeNoopLogger())
			store.On("List", mock.Anything, tenantID, tt.want).Return([]model.AuditEvent{{EventType: model.EventLoginSuccess}}, nil)

			events, err := a.List(context.Background(), tenantID, tt.in)
			require.NoError(t, err)
			assert.Len(t, events, 1)
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		store := mocks.NewAuditStore(t)
		a := NewAudit(store, testutil.MakeNoopLogger())
		store.On("List", mock.Anything, tenantID, mock.Anything).Return(nil, errors.New("boom"))

		_, err := a.List(context.Background(), tenantID, model.AuditFilter{})
		assert.ErrorIs(t, err, model.ErrStorageFailure)
	})
}
