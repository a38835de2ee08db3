package command

import (
	"context"
	"strings"

	"github.com/goliatone/go-bridgeauth/core"
	gocmd "github.com/goliatone/go-command"
)

// Continuations exposes the stage continuations of a login handshake.
type Continuations interface {
	Continuation(state core.State) core.Continuation
}

type StartLoginCommand struct {
	sessions  core.SessionResolver
	handshake Continuations
}

func NewStartLoginCommand(sessions core.SessionResolver, handshake Continuations) *StartLoginCommand {
	return &StartLoginCommand{sessions: sessions, handshake: handshake}
}

func (c *StartLoginCommand) Execute(ctx context.Context, msg StartLoginMessage) error {
	if c == nil || c.sessions == nil || c.handshake == nil {
		return commandDependencyError("command: login handshake is required")
	}
	session, err := resolveSession(ctx, c.sessions, msg.Identity)
	if err != nil {
		return err
	}
	session.SetPendingCommand(core.PendingCommand{
		Next:   c.handshake.Continuation(core.StateRequest),
		Action: core.ActionLogin,
	})
	storeResult(ctx, Reply{Identity: session.Identity(), Text: promptPhoneOrToken})
	return nil
}

type ContinueLoginCommand struct {
	sessions  core.SessionResolver
	handshake Continuations
	replies   core.ResponseFactory[string]
}

func NewContinueLoginCommand(
	sessions core.SessionResolver,
	handshake Continuations,
	replies core.ResponseFactory[string],
) *ContinueLoginCommand {
	if replies == nil {
		replies = TextResponseFactory{}
	}
	return &ContinueLoginCommand{sessions: sessions, handshake: handshake, replies: replies}
}

// Execute runs the pending continuation. Once a code has been requested the
// pending step moves on to code entry.
func (c *ContinueLoginCommand) Execute(ctx context.Context, msg ContinueLoginMessage) error {
	if c == nil || c.sessions == nil || c.handshake == nil {
		return commandDependencyError("command: login handshake is required")
	}
	session, err := resolveSession(ctx, c.sessions, msg.Identity)
	if err != nil {
		return err
	}
	pending, ok := session.PendingCommand()
	if !ok || pending.Next == nil {
		return noPendingCommandError(session.Identity())
	}

	resp := pending.Next(ctx, session, msg.Input)
	if !resp.Failed() && resp.State == core.StateCode {
		session.ReplacePendingCommandIf(core.ActionLogin, core.PendingCommand{
			Next:   c.handshake.Continuation(core.StateCode),
			Action: core.ActionLogin,
		})
	}
	storeResult(ctx, Reply{
		Identity: session.Identity(),
		Text:     c.replies.Build(resp),
		Response: &resp,
	})
	return nil
}

type CancelLoginCommand struct {
	sessions core.SessionResolver
}

func NewCancelLoginCommand(sessions core.SessionResolver) *CancelLoginCommand {
	return &CancelLoginCommand{sessions: sessions}
}

func (c *CancelLoginCommand) Execute(ctx context.Context, msg CancelLoginMessage) error {
	if c == nil || c.sessions == nil {
		return commandDependencyError("command: session resolver is required")
	}
	session, err := resolveSession(ctx, c.sessions, msg.Identity)
	if err != nil {
		return err
	}
	text := replyNothingToStop
	if session.ClearPendingCommandIf(core.ActionLogin) || session.ClearPendingCommandIf(core.ActionLoginPasswordEntry) {
		text = replyCancelled
	}
	storeResult(ctx, Reply{Identity: session.Identity(), Text: text})
	return nil
}

func resolveSession(ctx context.Context, sessions core.SessionResolver, identity string) (*core.Session, error) {
	identity = strings.TrimSpace(identity)
	session, err := sessions.ResolveSession(ctx, identity)
	if err != nil {
		return nil, core.MapError(err)
	}
	if session == nil {
		return nil, core.NewIdentityNotFoundError(identity)
	}
	return session, nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
