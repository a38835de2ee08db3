package query

import (
	"github.com/goliatone/go-bridgeauth/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[LoginStatusMessage, core.LoginStatus]             = (*LoginStatusQuery)(nil)
	_ gocmd.Querier[ListLoginActivityMessage, core.LoginActivityPage] = (*ListLoginActivityQuery)(nil)
)
