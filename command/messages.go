package command

import "strings"

const (
	TypeStartLogin    = "bridgeauth.command.login.start"
	TypeContinueLogin = "bridgeauth.command.login.continue"
	TypeCancelLogin   = "bridgeauth.command.login.cancel"
)

// StartLoginMessage begins an interactive login for a bridged identity.
type StartLoginMessage struct {
	Identity string
}

func (StartLoginMessage) Type() string { return TypeStartLogin }

func (m StartLoginMessage) Validate() error {
	return validateIdentity(m.Identity)
}

// ContinueLoginMessage feeds the next line of user input into the pending
// login step.
type ContinueLoginMessage struct {
	Identity string
	Input    string
}

func (ContinueLoginMessage) Type() string { return TypeContinueLogin }

func (m ContinueLoginMessage) Validate() error {
	return validateIdentity(m.Identity)
}

type CancelLoginMessage struct {
	Identity string
}

func (CancelLoginMessage) Type() string { return TypeCancelLogin }

func (m CancelLoginMessage) Validate() error {
	return validateIdentity(m.Identity)
}

func validateIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return commandValidationError("identity", "identity is required")
	}
	return nil
}
