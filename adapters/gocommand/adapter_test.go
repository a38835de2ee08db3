package gocommand

import (
	"context"
	"errors"
	"testing"

	bridgecommand "github.com/goliatone/go-bridgeauth/command"
	"github.com/goliatone/go-bridgeauth/core"
	bridgequery "github.com/goliatone/go-bridgeauth/query"
	"github.com/goliatone/go-command"
	glog "github.com/goliatone/go-logger/glog"
)

type okMessage struct{}

func (okMessage) Type() string { return "bridgeauth.command.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "bridgeauth.command.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type dispatchMessage struct {
	ID string
}

func (dispatchMessage) Type() string { return "bridgeauth.command.test" }

type stubClient struct{}

func (stubClient) RequestCode(context.Context, string) error { return nil }

func (stubClient) SignInCode(_ context.Context, code string) (core.AccountInfo, error) {
	if code != "12345" {
		return core.AccountInfo{}, core.NewProviderError(core.FailurePhoneCodeInvalid, nil)
	}
	return core.AccountInfo{ID: "7", Username: "alice"}, nil
}

func (stubClient) SignInPassword(context.Context, string) (core.AccountInfo, error) {
	return core.AccountInfo{}, core.NewProviderError(core.FailurePasswordInvalid, nil)
}

func (stubClient) SignInBotToken(context.Context, string) (core.AccountInfo, error) {
	return core.AccountInfo{}, core.NewProviderError(core.FailureBotTokenInvalid, nil)
}

type singleSession struct {
	session *core.Session
}

func (s singleSession) ResolveSession(_ context.Context, identity string) (*core.Session, error) {
	if identity != s.session.Identity() {
		return nil, core.NewIdentityNotFoundError(identity)
	}
	return s.session, nil
}

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
	if err := ValidateMessageContract(bridgecommand.StartLoginMessage{}); err == nil {
		t.Fatalf("expected missing identity to fail validation")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0
	customResolverCalled := 0

	cmd := command.CommandFunc[dispatchMessage](func(context.Context, dispatchMessage) error {
		executed++
		return nil
	})

	sub, err := RegisterAndSubscribe[dispatchMessage](adapter, cmd)
	if err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	defer sub.Unsubscribe()
	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), dispatchMessage{ID: "m1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
}

func TestRegisterLoginHandlers_RequiresCommands(t *testing.T) {
	if _, err := RegisterLoginHandlers(NewRegistryAdapter(nil), LoginHandlers{}); err == nil {
		t.Fatalf("expected error without login commands")
	}
}

func TestRegisterLoginHandlers_DispatchesInteractiveFlow(t *testing.T) {
	svc, err := core.NewService(core.DefaultConfig(), core.WithLogger(glog.Nop()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	session := core.NewSession("@alice:example.org", stubClient{})
	sessions := singleSession{session: session}

	adapter := NewRegistryAdapter(command.NewRegistry())
	subs, err := RegisterLoginHandlers(adapter, LoginHandlers{
		Start:    bridgecommand.NewStartLoginCommand(sessions, svc),
		Continue: bridgecommand.NewContinueLoginCommand(sessions, svc, nil),
		Cancel:   bridgecommand.NewCancelLoginCommand(sessions),
		Status:   bridgequery.NewLoginStatusQuery(sessions),
	})
	if err != nil {
		t.Fatalf("register login handlers: %v", err)
	}
	defer subs.Unsubscribe()
	if len(subs) != 4 {
		t.Fatalf("expected 4 subscriptions, got %d", len(subs))
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	ctx := context.Background()
	if _, ok, err := DispatchForReply[bridgecommand.StartLoginMessage, bridgecommand.Reply](ctx,
		bridgecommand.StartLoginMessage{Identity: "@alice:example.org"}); err != nil || !ok {
		t.Fatalf("start login: ok=%v err=%v", ok, err)
	}

	status, err := Query[bridgequery.LoginStatusMessage, core.LoginStatus](ctx,
		bridgequery.LoginStatusMessage{Identity: "@alice:example.org"})
	if err != nil {
		t.Fatalf("status query: %v", err)
	}
	if !status.Interactive || status.PendingAction != core.ActionLogin {
		t.Fatalf("unexpected status %+v", status)
	}

	reply, ok, err := DispatchForReply[bridgecommand.ContinueLoginMessage, bridgecommand.Reply](ctx,
		bridgecommand.ContinueLoginMessage{Identity: "@alice:example.org", Input: "+15550001111"})
	if err != nil || !ok {
		t.Fatalf("submit phone: ok=%v err=%v", ok, err)
	}
	if reply.Response == nil || reply.Response.State != core.StateCode {
		t.Fatalf("expected code state reply, got %+v", reply)
	}

	reply, _, err = DispatchForReply[bridgecommand.ContinueLoginMessage, bridgecommand.Reply](ctx,
		bridgecommand.ContinueLoginMessage{Identity: "@alice:example.org", Input: "12345"})
	if err != nil {
		t.Fatalf("submit code: %v", err)
	}
	if reply.Text != "Successfully logged in as @alice." {
		t.Fatalf("unexpected reply %q", reply.Text)
	}

	reply, _, err = DispatchForReply[bridgecommand.CancelLoginMessage, bridgecommand.Reply](ctx,
		bridgecommand.CancelLoginMessage{Identity: "@alice:example.org"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if reply.Text != "No login in progress." {
		t.Fatalf("unexpected cancel reply %q", reply.Text)
	}
}
