package sqlstore

import (
	"github.com/goliatone/go-bridgeauth/core"
	"github.com/goliatone/go-bridgeauth/query"
)

var (
	_ core.ActivityRecorder     = (*LoginActivityStore)(nil)
	_ query.LoginActivityReader = (*LoginActivityStore)(nil)
)
