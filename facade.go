package bridgeauth

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-bridgeauth/adapters/gocommand"
	bridgecommand "github.com/goliatone/go-bridgeauth/command"
	"github.com/goliatone/go-bridgeauth/core"
	"github.com/goliatone/go-bridgeauth/httpapi"
	bridgequery "github.com/goliatone/go-bridgeauth/query"
	"github.com/goliatone/go-command/runner"
)

type Commands struct {
	StartLogin    *bridgecommand.StartLoginCommand
	ContinueLogin *bridgecommand.ContinueLoginCommand
	CancelLogin   *bridgecommand.CancelLoginCommand
}

type Queries struct {
	LoginStatus       *bridgequery.LoginStatusQuery
	ListLoginActivity *bridgequery.ListLoginActivityQuery
}

// Facade wires both login front ends around one handshake.
type Facade struct {
	handshake core.LoginHandshake
	sessions  core.SessionResolver
	commands  Commands
	queries   Queries
	http      *httpapi.Handler
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	activityReader bridgequery.LoginActivityReader
	replies        core.ResponseFactory[string]
	httpOptions    []httpapi.Option
}

func WithActivityReader(reader bridgequery.LoginActivityReader) FacadeOption {
	return func(options *facadeOptions) {
		options.activityReader = reader
	}
}

func WithReplyFactory(factory core.ResponseFactory[string]) FacadeOption {
	return func(options *facadeOptions) {
		options.replies = factory
	}
}

func WithHTTPOptions(opts ...httpapi.Option) FacadeOption {
	return func(options *facadeOptions) {
		options.httpOptions = append(options.httpOptions, opts...)
	}
}

func NewFacade(handshake core.LoginHandshake, sessions core.SessionResolver, opts ...FacadeOption) (*Facade, error) {
	if handshake == nil {
		return nil, fmt.Errorf("bridgeauth: login handshake is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("bridgeauth: session resolver is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	reader := cfg.activityReader
	if reader == nil {
		reader = resolveActivityReader(handshake)
	}

	facade := &Facade{handshake: handshake, sessions: sessions}
	facade.commands = Commands{
		StartLogin:    bridgecommand.NewStartLoginCommand(sessions, handshake),
		ContinueLogin: bridgecommand.NewContinueLoginCommand(sessions, handshake, cfg.replies),
		CancelLogin:   bridgecommand.NewCancelLoginCommand(sessions),
	}
	facade.queries = Queries{LoginStatus: bridgequery.NewLoginStatusQuery(sessions)}
	if reader != nil {
		facade.queries.ListLoginActivity = bridgequery.NewListLoginActivityQuery(reader)
	}
	facade.http = httpapi.NewHandler(handshake, sessions, cfg.httpOptions...)
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Handshake() core.LoginHandshake {
	if f == nil {
		return nil
	}
	return f.handshake
}

// HTTPHandler returns the direct login API mounted on its own chi router.
func (f *Facade) HTTPHandler() http.Handler {
	if f == nil || f.http == nil {
		return http.NotFoundHandler()
	}
	return httpapi.NewRouter(f.http)
}

// RegisterCommands registers the interactive commanders and queriers with a
// go-command registry and the global dispatcher.
func (f *Facade) RegisterCommands(adapter *gocommand.RegistryAdapter, runnerOpts ...runner.Option) (gocommand.Subscriptions, error) {
	if f == nil {
		return nil, fmt.Errorf("bridgeauth: facade is nil")
	}
	return gocommand.RegisterLoginHandlers(adapter, gocommand.LoginHandlers{
		Start:    f.commands.StartLogin,
		Continue: f.commands.ContinueLogin,
		Cancel:   f.commands.CancelLogin,
		Status:   f.queries.LoginStatus,
		Activity: f.queries.ListLoginActivity,
	}, runnerOpts...)
}

// resolveActivityReader reuses the service's activity recorder when it can
// also list activity, as the sql store does.
func resolveActivityReader(handshake core.LoginHandshake) bridgequery.LoginActivityReader {
	if reader, ok := handshake.(bridgequery.LoginActivityReader); ok {
		return reader
	}
	provider, ok := handshake.(interface {
		Dependencies() core.ServiceDependencies
	})
	if !ok {
		return nil
	}
	reader, _ := provider.Dependencies().ActivityRecorder.(bridgequery.LoginActivityReader)
	return reader
}
