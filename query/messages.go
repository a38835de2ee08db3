package query

import (
	"strings"

	"github.com/goliatone/go-bridgeauth/core"
)

const (
	TypeLoginStatus       = "bridgeauth.query.login.status"
	TypeListLoginActivity = "bridgeauth.query.login.activity.list"
)

type LoginStatusMessage struct {
	Identity string
}

func (LoginStatusMessage) Type() string { return TypeLoginStatus }

func (m LoginStatusMessage) Validate() error {
	if strings.TrimSpace(m.Identity) == "" {
		return queryValidationError("identity", "identity is required")
	}
	return nil
}

type ListLoginActivityMessage struct {
	Filter core.LoginActivityFilter
}

func (ListLoginActivityMessage) Type() string { return TypeListLoginActivity }

func (m ListLoginActivityMessage) Validate() error {
	if m.Filter.Page < 0 {
		return queryValidationError("page", "page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return queryValidationError("per_page", "per_page must be >= 0")
	}
	switch m.Filter.Stage {
	case "", core.StateRequest, core.StateToken, core.StateCode, core.StatePassword:
		return nil
	default:
		return queryValidationError("stage", "unknown login stage")
	}
}
