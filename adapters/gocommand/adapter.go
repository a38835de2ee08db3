package gocommand

import (
	"context"
	"fmt"
	"strings"

	bridgecommand "github.com/goliatone/go-bridgeauth/command"
	"github.com/goliatone/go-bridgeauth/core"
	bridgequery "github.com/goliatone/go-bridgeauth/query"
	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) register(handler any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(handler)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

// Subscriptions groups dispatcher subscriptions so they can be released together.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// LoginHandlers are the interactive login commanders and queriers. Activity
// is optional.
type LoginHandlers struct {
	Start    *bridgecommand.StartLoginCommand
	Continue *bridgecommand.ContinueLoginCommand
	Cancel   *bridgecommand.CancelLoginCommand
	Status   *bridgequery.LoginStatusQuery
	Activity *bridgequery.ListLoginActivityQuery
}

// RegisterLoginHandlers registers every configured login handler with the
// registry and subscribes it to the global dispatcher. On failure the
// subscriptions made so far are released.
func RegisterLoginHandlers(adapter *RegistryAdapter, handlers LoginHandlers, runnerOpts ...runner.Option) (Subscriptions, error) {
	if handlers.Start == nil || handlers.Continue == nil || handlers.Cancel == nil {
		return nil, fmt.Errorf("gocommand: start, continue and cancel login commands are required")
	}

	var subs Subscriptions
	collect := func(sub commanddispatcher.Subscription, err error) error {
		if err != nil {
			subs.Unsubscribe()
			return err
		}
		subs = append(subs, sub)
		return nil
	}

	if err := collect(RegisterAndSubscribe[bridgecommand.StartLoginMessage](adapter, handlers.Start, runnerOpts...)); err != nil {
		return nil, err
	}
	if err := collect(RegisterAndSubscribe[bridgecommand.ContinueLoginMessage](adapter, handlers.Continue, runnerOpts...)); err != nil {
		return nil, err
	}
	if err := collect(RegisterAndSubscribe[bridgecommand.CancelLoginMessage](adapter, handlers.Cancel, runnerOpts...)); err != nil {
		return nil, err
	}
	if handlers.Status != nil {
		if err := collect(RegisterAndSubscribeQuery[bridgequery.LoginStatusMessage, core.LoginStatus](adapter, handlers.Status, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if handlers.Activity != nil {
		if err := collect(RegisterAndSubscribeQuery[bridgequery.ListLoginActivityMessage, core.LoginActivityPage](adapter, handlers.Activity, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

// DispatchForReply dispatches msg with a result collector attached and
// returns whatever the commander stored.
func DispatchForReply[T any, R any](ctx context.Context, msg T) (R, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	collector := command.NewResult[R]()
	if err := commanddispatcher.Dispatch(command.ContextWithResult(ctx, collector), msg); err != nil {
		var zero R
		return zero, false, err
	}
	reply, ok := collector.Load()
	return reply, ok, nil
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.register(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	if err := adapter.register(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}
