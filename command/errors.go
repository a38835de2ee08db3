package command

import (
	"net/http"

	"github.com/goliatone/go-bridgeauth/core"
	goerrors "github.com/goliatone/go-errors"
)

func commandDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(core.ErrCodeException)
}

func commandValidationError(field string, message string) error {
	return goerrors.NewValidation("command: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.ErrCodeRequestInvalid).
		WithSeverity(goerrors.SeverityError)
}

func noPendingCommandError(identity string) error {
	return goerrors.New("command: no login in progress", goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode(core.ErrCodeNoPendingCommand).
		WithMetadata(map[string]any{"identity": identity})
}
