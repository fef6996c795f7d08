package store

import (
	"bookings/src/types"
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Classify maps a backend error onto the error taxonomy. Errors that are
// already *types.Error pass through untouched.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var te *types.Error
	if errors.As(err, &te) {
		return te
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return types.NewError(types.ERR_NOT_FOUND, "document not found", err)
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewError(types.ERR_TIMEOUT, "database timeout", err)
	}
	switch status.Code(err) {
	case codes.NotFound:
		return types.NewError(types.ERR_NOT_FOUND, "document not found", err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return types.NewError(types.ERR_PERMISSION, "permission denied", err)
	case codes.ResourceExhausted:
		return types.NewError(types.ERR_RATE_LIMIT, "quota exceeded, try again later", err)
	case codes.DeadlineExceeded, codes.Unavailable:
		return types.NewError(types.ERR_TIMEOUT, "database timeout", err)
	}
	return types.NewError(types.ERR_INTERNAL, "internal server error", err)
}
