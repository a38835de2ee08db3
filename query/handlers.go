package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-bridgeauth/core"
)

type LoginActivityReader interface {
	List(ctx context.Context, filter core.LoginActivityFilter) (core.LoginActivityPage, error)
}

type LoginStatusQuery struct {
	sessions core.SessionResolver
}

func NewLoginStatusQuery(sessions core.SessionResolver) *LoginStatusQuery {
	return &LoginStatusQuery{sessions: sessions}
}

func (q *LoginStatusQuery) Query(ctx context.Context, msg LoginStatusMessage) (core.LoginStatus, error) {
	if q == nil || q.sessions == nil {
		return core.LoginStatus{}, queryDependencyError("query: session resolver is required")
	}
	identity := strings.TrimSpace(msg.Identity)
	session, err := q.sessions.ResolveSession(ctx, identity)
	if err != nil {
		return core.LoginStatus{}, core.MapError(err)
	}
	if session == nil {
		return core.LoginStatus{}, core.NewIdentityNotFoundError(identity)
	}
	action := session.PendingAction()
	return core.LoginStatus{
		Identity:         session.Identity(),
		PendingAction:    action,
		Interactive:      action == core.ActionLogin || action == core.ActionLoginPasswordEntry,
		AwaitingPassword: action == core.ActionLoginPasswordEntry,
	}, nil
}

type ListLoginActivityQuery struct {
	reader LoginActivityReader
}

func NewListLoginActivityQuery(reader LoginActivityReader) *ListLoginActivityQuery {
	return &ListLoginActivityQuery{reader: reader}
}

func (q *ListLoginActivityQuery) Query(
	ctx context.Context,
	msg ListLoginActivityMessage,
) (core.LoginActivityPage, error) {
	if q == nil || q.reader == nil {
		return core.LoginActivityPage{}, queryDependencyError("query: login activity reader is required")
	}
	return q.reader.List(ctx, msg.Filter)
}
