package core

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

const (
	messageCodeRequested = "Code requested successfully."
	messagePasswordStage = "Code accepted, but you have 2-factor authentication is enabled."
)

var botTokenPattern = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]+$`)

type Service struct {
	config           Config
	logger           Logger
	loggerProvider   LoggerProvider
	metricsRecorder  MetricsRecorder
	configProvider   ConfigProvider
	optionsResolver  OptionsResolver
	postLoginTrigger PostLoginTrigger
	activityRecorder ActivityRecorder
}

type ServiceDependencies struct {
	Logger           Logger
	LoggerProvider   LoggerProvider
	MetricsRecorder  MetricsRecorder
	ConfigProvider   ConfigProvider
	OptionsResolver  OptionsResolver
	PostLoginTrigger PostLoginTrigger
	ActivityRecorder ActivityRecorder
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("bridgeauth", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("bridgeauth"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.postLoginTrigger == nil {
		if builder.postLoginFunc != nil {
			builder.postLoginTrigger = NewGoroutineTrigger(builder.postLoginFunc, logger)
		} else {
			builder.postLoginTrigger = NopPostLoginTrigger{}
		}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, MapError(err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, MapError(err)
	}

	return &Service{
		config:           finalConfig,
		logger:           logger,
		loggerProvider:   provider,
		metricsRecorder:  builder.metricsRecorder,
		configProvider:   builder.configProvider,
		optionsResolver:  builder.optionsResolver,
		postLoginTrigger: builder.postLoginTrigger,
		activityRecorder: builder.activityRecorder,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:           s.logger,
		LoggerProvider:   s.loggerProvider,
		MetricsRecorder:  s.metricsRecorder,
		ConfigProvider:   s.configProvider,
		OptionsResolver:  s.optionsResolver,
		PostLoginTrigger: s.postLoginTrigger,
		ActivityRecorder: s.activityRecorder,
	}
}

// SubmitPhone requests a verification code for phone. An empty phone submits
// the configured placeholder number.
func (s *Service) SubmitPhone(ctx context.Context, session *Session, phone string) (resp Response) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"identity": session.Identity(), "phone": phone}
	defer func() {
		s.finishStage(ctx, startedAt, StateRequest, session, &resp, fields)
	}()

	client, failure := s.stageClient(ctx, StateRequest, session)
	if failure != nil {
		return *failure
	}
	if strings.TrimSpace(phone) == "" {
		phone = s.config.PlaceholderPhone
	}
	if err := client.RequestCode(ctx, phone); err != nil {
		return s.failureResponse(ctx, StateRequest, session, err)
	}
	return Response{
		Status:   http.StatusOK,
		State:    StateCode,
		Identity: session.Identity(),
		Message:  messageCodeRequested,
	}
}

// SubmitToken signs in with a bot token.
func (s *Service) SubmitToken(ctx context.Context, session *Session, token string) (resp Response) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"identity": session.Identity()}
	defer func() {
		s.finishStage(ctx, startedAt, StateToken, session, &resp, fields)
	}()

	client, failure := s.stageClient(ctx, StateToken, session)
	if failure != nil {
		return *failure
	}
	info, err := client.SignInBotToken(ctx, token)
	if err != nil {
		return s.failureResponse(ctx, StateToken, session, err)
	}
	return s.completeSignIn(ctx, session, info, ActionLogin)
}

// SubmitCode signs in with a verification code. When the account has
// two-factor authentication and passwordAlsoProvided is set, no Response is
// produced and the caller must follow up with SubmitPassword.
func (s *Service) SubmitCode(ctx context.Context, session *Session, code string, passwordAlsoProvided bool) (resp *Response) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"identity":        session.Identity(),
		"combined_submit": passwordAlsoProvided,
	}
	defer func() {
		s.finishStage(ctx, startedAt, StateCode, session, resp, fields)
	}()

	client, failure := s.stageClient(ctx, StateCode, session)
	if failure != nil {
		return failure
	}
	info, err := client.SignInCode(ctx, code)
	if err == nil {
		out := s.completeSignIn(ctx, session, info, ActionLogin)
		return &out
	}
	if FailureKindOf(err) != FailurePasswordNeeded {
		out := s.failureResponse(ctx, StateCode, session, err)
		return &out
	}
	if passwordAlsoProvided {
		return nil
	}
	session.ReplacePendingCommandIf(ActionLogin, PendingCommand{
		Next:   s.enterPassword,
		Action: ActionLoginPasswordEntry,
	})
	return &Response{
		Status:   http.StatusAccepted,
		State:    StatePassword,
		Identity: session.Identity(),
		Message:  messagePasswordStage,
	}
}

// SubmitPassword completes a two-factor sign-in.
func (s *Service) SubmitPassword(ctx context.Context, session *Session, password string) (resp Response) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"identity": session.Identity()}
	defer func() {
		s.finishStage(ctx, startedAt, StatePassword, session, &resp, fields)
	}()

	client, failure := s.stageClient(ctx, StatePassword, session)
	if failure != nil {
		return *failure
	}
	info, err := client.SignInPassword(ctx, password)
	if err != nil {
		return s.failureResponse(ctx, StatePassword, session, err)
	}
	return s.completeSignIn(ctx, session, info, ActionLoginPasswordEntry)
}

// Continuation returns the interactive continuation that feeds user input
// into the stage handler for state. The request continuation accepts either a
// phone number or a bot token.
func (s *Service) Continuation(state State) Continuation {
	if s == nil {
		return nil
	}
	switch state {
	case StateRequest:
		return s.enterPhoneOrToken
	case StateToken:
		return s.enterToken
	case StateCode:
		return s.enterCode
	case StatePassword:
		return s.enterPassword
	default:
		return nil
	}
}

func (s *Service) enterPhoneOrToken(ctx context.Context, session *Session, input string) Response {
	input = strings.TrimSpace(input)
	if IsBotToken(input) {
		return s.SubmitToken(ctx, session, input)
	}
	return s.SubmitPhone(ctx, session, input)
}

func (s *Service) enterToken(ctx context.Context, session *Session, input string) Response {
	return s.SubmitToken(ctx, session, strings.TrimSpace(input))
}

func (s *Service) enterCode(ctx context.Context, session *Session, input string) Response {
	return *s.SubmitCode(ctx, session, strings.TrimSpace(input), false)
}

func (s *Service) enterPassword(ctx context.Context, session *Session, input string) Response {
	return s.SubmitPassword(ctx, session, input)
}

func IsBotToken(input string) bool {
	return botTokenPattern.MatchString(strings.TrimSpace(input))
}

func (s *Service) completeSignIn(ctx context.Context, session *Session, info AccountInfo, clearAction string) Response {
	s.postLoginTrigger.Schedule(ctx, session, info)
	session.ClearPendingCommandIf(clearAction)
	return Response{
		Status:   http.StatusOK,
		State:    StateLoggedIn,
		Identity: session.Identity(),
		Username: info.Username,
	}
}

func (s *Service) stageClient(ctx context.Context, stage State, session *Session) (ProviderClient, *Response) {
	client := session.Client()
	if client != nil {
		return client, nil
	}
	failure := s.failureResponse(ctx, stage, session, errNoProviderClient)
	return nil, &failure
}

func (s *Service) failureResponse(ctx context.Context, stage State, session *Session, err error) Response {
	richErr, classified := ClassifyFailure(stage, err)
	if !classified {
		fields := map[string]any{
			"identity":     session.Identity(),
			"stage":        string(stage),
			"failure_kind": string(FailureKindOf(err)),
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		s.logError(ctx, "unclassified provider failure during "+string(stage)+" stage", fields)
	}
	return ResponseFromError(stage, session.Identity(), richErr)
}

func (s *Service) finishStage(
	ctx context.Context,
	startedAt time.Time,
	stage State,
	session *Session,
	resp *Response,
	fields map[string]any,
) {
	s.observeStage(ctx, startedAt, stage, resp, fields)
	if resp == nil {
		return
	}
	s.recordActivity(ctx, stage, session, *resp)
}

func (s *Service) recordActivity(ctx context.Context, stage State, session *Session, resp Response) {
	if s.activityRecorder == nil || s.config.Activity.Disabled {
		return
	}
	entry := LoginActivity{
		Identity:   session.Identity(),
		Stage:      stage,
		State:      resp.State,
		Status:     resp.Status,
		ErrCode:    resp.ErrCode,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.activityRecorder.Record(ctx, entry); err != nil {
		s.logWarn(ctx, "login activity record failed", map[string]any{
			"identity": session.Identity(),
			"stage":    string(stage),
			"error":    err.Error(),
		})
	}
}
