package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/service"
)

// handleError maps service errors to gRPC statuses. Infrastructure details are
// never sent to the client.
func handleError(err error) error {
	if s, ok := status.FromError(err); ok && s.Code() != codes.OK {
		return err
	}

	switch {
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, "invalid request")
	case errors.Is(err, model.ErrCredentialInvalid):
		return status.Error(codes.Unauthenticated, "invalid or expired credential")
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, model.ErrConflict):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, model.ErrAccessDenied):
		return status.Error(codes.PermissionDenied, "access denied")
	case errors.Is(err, model.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, service.MsgRateLimited)
	case errors.Is(err, model.ErrDeliveryFailed):
		return status.Error(codes.Unavailable, service.MsgDeliveryFailed)
	case errors.Is(err, service.ErrFamilyCodeExhausted):
		return status.Error(codes.ResourceExhausted, "try again later")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
