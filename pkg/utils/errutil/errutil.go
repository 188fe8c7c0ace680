package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pressbridge/pressbridge/pkg/domain/interfaces"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

// Handle logs the error with a message and returns it unchanged.
// This function ensures that all errors, especially 5xx errors, are properly logged.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	return err
}

// StatusCode maps an error to the HTTP status of its classification tag.
// Untagged errors are treated as internal failures.
func StatusCode(err error) int {
	var ge *goerr.Error
	if errors.As(err, &ge) {
		switch {
		case ge.HasTag(types.ErrTagNotFound):
			return http.StatusNotFound
		case ge.HasTag(types.ErrTagUnauthorized):
			return http.StatusUnauthorized
		case ge.HasTag(types.ErrTagNoPermission):
			return http.StatusForbidden
		case ge.HasTag(types.ErrTagValidation):
			return http.StatusUnprocessableEntity
		case ge.HasTag(types.ErrTagTokenRevocation):
			return http.StatusInternalServerError
		}
	}
	if errors.Is(err, interfaces.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// HandleHTTP logs the error and writes the HTTP error response derived from
// the error's classification tag.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	statusCode := StatusCode(err)
	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	http.Error(w, err.Error(), statusCode)
}
