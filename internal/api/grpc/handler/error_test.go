package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/service"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "status passthrough",
			in:       status.Error(codes.Unauthenticated, "no session"),
			wantCode: codes.Unauthenticated,
			wantMsg:  "no session",
		},
		{
			name:     "validation -> InvalidArgument",
			in:       fmt.Errorf("%w: unknown role", model.ErrValidation),
			wantCode: codes.InvalidArgument,
			wantMsg:  "invalid request",
		},
		{
			name:     "not found -> NotFound",
			in:       model.ErrNotFound,
			wantCode: codes.NotFound,
			wantMsg:  "not found",
		},
		{
			name:     "conflict -> AlreadyExists",
			in:       model.ErrConflict,
			wantCode: codes.AlreadyExists,
			wantMsg:  "already exists",
		},
		{
			name:     "access denied -> PermissionDenied",
			in:       model.ErrAccessDenied,
			wantCode: codes.PermissionDenied,
			wantMsg:  "access denied",
		},
		{
			name:     "delivery -> Unavailable",
			in:       fmt.Errorf("%w: smtp down", model.ErrDeliveryFailed),
			wantCode: codes.Unavailable,
			wantMsg:  service.MsgDeliveryFailed,
		},
		{
			name:     "family codes exhausted -> ResourceExhausted",
			in:       service.ErrFamilyCodeExhausted,
			wantCode: codes.ResourceExhausted,
			wantMsg:  "try again later",
		},
		{
			name:     "storage failure hides details",
			in:       fmt.Errorf("%w: failed to get tenant: %w", model.ErrStorageFailure, errors.New("dial tcp 10.0.0.5:5432")),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
