package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/testutil"
)

func TestRecovery_Handle(t *testing.T) {
	t.Parallel()

	err := NewRecovery(testutil.MakeNoopLogger()).Handle(context.Background(), "nil map write")
	assert.Equal(t, codes.Internal, status.Code(err))
}
