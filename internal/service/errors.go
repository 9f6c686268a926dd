package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsync/internal/models"
)

// maxAttempts bounds read-modify-write retries after a stale conditional update.
const maxAttempts = 3

// toConnectError maps model errors onto Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, models.ErrInvalidState):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, models.ErrStale):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs a failed call and converts err for the client.
func fail(op string, err error, args ...any) error {
	slog.Error(op+" failed", append(args, "error", err)...)
	return toConnectError(err)
}

// invalid builds a validation error for malformed requests.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

// stopRetry marks an error that retryStale returns without another attempt.
type stopRetry struct{ error }

func (e stopRetry) Unwrap() error { return e.error }

// retryStale runs a read-modify-write step until it stops failing with
// models.ErrStale, at most maxAttempts times.
func retryStale(ctx context.Context, step func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = step()
		var stop stopRetry
		if errors.As(err, &stop) {
			return stop.error
		}
		if !errors.Is(err, models.ErrStale) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Debug("Retrying stale update", "attempt", attempt, "error", err)
	}
	return err
}
