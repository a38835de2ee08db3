package core

import (
	"errors"
	"fmt"
	"strings"
)

type FailureKind string

const (
	FailureUnclassified               FailureKind = ""
	FailurePhoneNumberInvalid         FailureKind = "phone_number_invalid"
	FailurePhoneNumberBanned          FailureKind = "phone_number_banned"
	FailurePhoneNumberSignupForbidden FailureKind = "phone_number_app_signup_forbidden"
	FailurePhoneNumberUnoccupied      FailureKind = "phone_number_unoccupied"
	FailurePhoneNumberFlood           FailureKind = "phone_number_flood"
	FailureFloodWait                  FailureKind = "flood_wait"
	FailureBotTokenInvalid            FailureKind = "bot_token_invalid"
	FailureBotTokenExpired            FailureKind = "bot_token_expired"
	FailurePhoneCodeInvalid           FailureKind = "phone_code_invalid"
	FailurePhoneCodeExpired           FailureKind = "phone_code_expired"
	FailurePasswordNeeded             FailureKind = "password_needed"
	FailurePasswordEmpty              FailureKind = "password_empty"
	FailurePasswordInvalid            FailureKind = "password_invalid"
)

// ProviderError is the tagged failure returned by a ProviderClient.
type ProviderError struct {
	Kind        FailureKind
	WaitSeconds int
	Err         error
}

func NewProviderError(kind FailureKind, cause error) *ProviderError {
	return &ProviderError{Kind: kind, Err: cause}
}

func NewFloodWaitError(seconds int) *ProviderError {
	return &ProviderError{Kind: FailureFloodWait, WaitSeconds: seconds}
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "core: provider error"
	}
	kind := strings.TrimSpace(string(e.Kind))
	if kind == "" {
		kind = "unclassified"
	}
	msg := "core: provider failure " + kind
	if e.Kind == FailureFloodWait {
		msg = fmt.Sprintf("%s (wait %ds)", msg, e.WaitSeconds)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FailureKindOf reports the tagged kind carried by err, or FailureUnclassified.
func FailureKindOf(err error) FailureKind {
	var providerErr *ProviderError
	if err == nil || !errors.As(err, &providerErr) || providerErr == nil {
		return FailureUnclassified
	}
	return providerErr.Kind
}

func floodWaitSeconds(err error) int {
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) || providerErr == nil {
		return 0
	}
	return providerErr.WaitSeconds
}

var errNoProviderClient = errors.New("core: session has no provider client")
