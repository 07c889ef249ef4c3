package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// InternalErrorMessage is the only detail a caller sees for a server-side failure
const InternalErrorMessage = "internal server error"

// Handle logs the error with a message and reports it to Sentry.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logAttrs(ctx, slog.LevelError, msg, err)
	report(ctx, err)
}

// HandleHTTP logs the error and writes a JSON failure body. Server errors are
// reported to Sentry and answered with a generic message; client errors carry
// the message of the underlying cause.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	message := InternalErrorMessage
	if statusCode >= http.StatusInternalServerError {
		logAttrs(ctx, slog.LevelError, "HTTP error", err, "status", statusCode)
		report(ctx, err)
	} else {
		logAttrs(ctx, slog.LevelWarn, "HTTP client error", err, "status", statusCode)
		message = rootCause(err).Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body := map[string]any{
		"success": false,
		"error":   message,
	}
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		logging.From(ctx).Error("failed to write error response", "error", encErr)
	}
}

func logAttrs(ctx context.Context, level slog.Level, msg string, err error, args ...any) {
	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		args = append(args,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		args = append(args, "error", err.Error())
	}
	logger.Log(ctx, level, msg, args...)
}

func report(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		var ge *goerr.Error
		if errors.As(err, &ge) {
			for k, v := range ge.Values() {
				scope.SetExtra(k, fmt.Sprintf("%v", v))
			}
		}
		hub.CaptureException(err)
	})
}

// rootCause returns the innermost wrapped error
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
