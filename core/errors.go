package core

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeRequestInvalid   = "request_invalid"
	ErrCodeIdentityNotFound = "identity_not_found"
	ErrCodeNoPendingCommand = "no_pending_command"
)

const (
	phoneFloodMessage = "Your phone number has been temporarily blocked for flooding. " +
		"The ban is usually applied for around a day."
	floodWaitMessage = "Your phone number has been temporarily blocked for flooding. " +
		"Please wait for %s before trying again."
)

type failureSpec struct {
	status   int
	category goerrors.Category
	message  string
}

var stageFailures = map[State]map[FailureKind]failureSpec{
	StateRequest: {
		FailurePhoneNumberInvalid:         {http.StatusBadRequest, goerrors.CategoryBadInput, "Invalid phone number."},
		FailurePhoneNumberBanned:          {http.StatusForbidden, goerrors.CategoryAuthz, "Your phone number is banned from Telegram."},
		FailurePhoneNumberSignupForbidden: {http.StatusForbidden, goerrors.CategoryAuthz, "You have disabled 3rd party apps on your account."},
		FailurePhoneNumberUnoccupied:      {http.StatusNotFound, goerrors.CategoryNotFound, "That phone number has not been registered."},
		FailurePhoneNumberFlood:           {http.StatusTooManyRequests, goerrors.CategoryRateLimit, phoneFloodMessage},
		FailureFloodWait:                  {http.StatusTooManyRequests, goerrors.CategoryRateLimit, floodWaitMessage},
	},
	StateToken: {
		FailureBotTokenInvalid: {http.StatusUnauthorized, goerrors.CategoryAuth, "Bot token invalid."},
		FailureBotTokenExpired: {http.StatusForbidden, goerrors.CategoryAuthz, "Bot token expired."},
	},
	StateCode: {
		FailurePhoneCodeInvalid: {http.StatusUnauthorized, goerrors.CategoryAuth, "Incorrect phone code."},
		FailurePhoneCodeExpired: {http.StatusForbidden, goerrors.CategoryAuthz, "Phone code expired."},
	},
	StatePassword: {
		FailurePasswordEmpty:   {http.StatusBadRequest, goerrors.CategoryBadInput, "Empty password."},
		FailurePasswordInvalid: {http.StatusUnauthorized, goerrors.CategoryAuth, "Incorrect password."},
	},
}

var stageActivities = map[State]string{
	StateRequest:  "requesting code",
	StateToken:    "sending token",
	StateCode:     "sending code",
	StatePassword: "sending password",
}

// ClassifyFailure maps a provider failure raised at stage to its error
// envelope. It reports false when the failure has no entry for that stage, in
// which case the envelope is the stage's internal error.
func ClassifyFailure(stage State, err error) (*goerrors.Error, bool) {
	kind := FailureKindOf(err)
	spec, ok := stageFailures[stage][kind]
	if !ok || kind == FailureUnclassified {
		return internalStageError(stage, err), false
	}

	message := spec.message
	metadata := map[string]any{
		"stage":        string(stage),
		"failure_kind": string(kind),
	}
	if kind == FailureFloodWait {
		seconds := floodWaitSeconds(err)
		message = fmt.Sprintf(floodWaitMessage, FormatDuration(seconds))
		metadata["wait_seconds"] = seconds
	}
	return newLoginError(err, message, spec.category, spec.status, string(kind)).
		WithMetadata(metadata), true
}

func internalStageError(stage State, source error) *goerrors.Error {
	activity, ok := stageActivities[stage]
	if !ok {
		activity = "processing login"
	}
	return newLoginError(
		source,
		"Internal server error while "+activity+".",
		goerrors.CategoryInternal,
		http.StatusInternalServerError,
		ErrCodeException,
	).WithMetadata(map[string]any{"stage": string(stage)})
}

func newLoginError(source error, message string, category goerrors.Category, status int, textCode string) *goerrors.Error {
	richErr := goerrors.New(message, category).
		WithCode(status).
		WithTextCode(textCode)
	richErr.Source = source
	return richErr
}

// ResponseFromError renders an error envelope as the failure Response for stage.
func ResponseFromError(stage State, identity string, richErr *goerrors.Error) Response {
	richErr = ensureLoginErrorEnvelope(richErr)
	return Response{
		Status:   richErr.Code,
		State:    stage,
		Identity: identity,
		Error:    richErr.Message,
		ErrCode:  richErr.TextCode,
	}
}

// MapError converts arbitrary front end failures (bad payloads, unknown
// identities) into an error envelope with a stable status and errcode.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureLoginErrorEnvelope(richErr)
	}
	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	mapped.TextCode = ""
	return ensureLoginErrorEnvelope(mapped)
}

func NewRequestError(message string) *goerrors.Error {
	return newLoginError(nil, message, goerrors.CategoryBadInput, http.StatusBadRequest, ErrCodeRequestInvalid)
}

func NewIdentityNotFoundError(identity string) *goerrors.Error {
	return newLoginError(nil, fmt.Sprintf("No bridged identity %q.", identity),
		goerrors.CategoryNotFound, http.StatusNotFound, ErrCodeIdentityNotFound)
}

func ensureLoginErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return internalStageError("", nil)
	}
	if err.Code == 0 {
		err.Code = loginHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultLoginTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "Internal server error."
	}
	return err
}

func defaultLoginTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrCodeRequestInvalid
	case goerrors.CategoryNotFound:
		return ErrCodeIdentityNotFound
	default:
		return ErrCodeException
	}
}

func loginHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
