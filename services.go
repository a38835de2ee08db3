package bridgeauth

import "github.com/goliatone/go-bridgeauth/core"

type Config = core.Config

type ActivityConfig = core.ActivityConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type Session = core.Session
type SessionResolver = core.SessionResolver
type ProviderClient = core.ProviderClient
type ProviderError = core.ProviderError
type AccountInfo = core.AccountInfo

type Response = core.Response
type State = core.State
type PendingCommand = core.PendingCommand
type Continuation = core.Continuation

type PostLoginTrigger = core.PostLoginTrigger
type PostLoginFunc = core.PostLoginFunc
type ActivityRecorder = core.ActivityRecorder
type LoginActivity = core.LoginActivity

var (
	WithLogger           = core.WithLogger
	WithLoggerProvider   = core.WithLoggerProvider
	WithMetricsRecorder  = core.WithMetricsRecorder
	WithConfigProvider   = core.WithConfigProvider
	WithOptionsResolver  = core.WithOptionsResolver
	WithPostLoginTrigger = core.WithPostLoginTrigger
	WithPostLogin        = core.WithPostLogin
	WithActivityRecorder = core.WithActivityRecorder
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewSession(identity string, client ProviderClient) *Session {
	return core.NewSession(identity, client)
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
