package mapping

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/eslsoft/wordpicker/internal/entity"
)

// ToConnectError translates domain errors into Connect status codes. Errors that
// already carry a code pass through unchanged.
func ToConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, entity.ErrInvalidWordText),
		errors.Is(err, entity.ErrInvalidTimestamp),
		errors.Is(err, entity.ErrInvalidPageSize),
		errors.Is(err, entity.ErrInvalidFilter):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, entity.ErrDuplicateWordRecord):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, entity.ErrStorageUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
