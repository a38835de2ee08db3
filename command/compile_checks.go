package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[StartLoginMessage]    = (*StartLoginCommand)(nil)
	_ gocmd.Commander[ContinueLoginMessage] = (*ContinueLoginCommand)(nil)
	_ gocmd.Commander[CancelLoginMessage]   = (*CancelLoginCommand)(nil)
)
