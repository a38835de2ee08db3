package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// ProviderClient is the capability handle to the external identity provider.
// Failures are reported as *ProviderError; any other error is unclassified.
type ProviderClient interface {
	RequestCode(ctx context.Context, phone string) error
	SignInCode(ctx context.Context, code string) (AccountInfo, error)
	SignInPassword(ctx context.Context, password string) (AccountInfo, error)
	SignInBotToken(ctx context.Context, token string) (AccountInfo, error)
}

// PostLoginTrigger schedules the account sync after a successful sign-in.
// Schedule must return without waiting for the continuation.
type PostLoginTrigger interface {
	Schedule(ctx context.Context, session *Session, info AccountInfo)
}

type PostLoginFunc func(ctx context.Context, session *Session, info AccountInfo) error

// ResponseFactory renders a Response for one front end.
type ResponseFactory[T any] interface {
	Build(resp Response) T
}

type LoginHandshake interface {
	SubmitPhone(ctx context.Context, session *Session, phone string) Response
	SubmitToken(ctx context.Context, session *Session, token string) Response
	SubmitCode(ctx context.Context, session *Session, code string, passwordAlsoProvided bool) *Response
	SubmitPassword(ctx context.Context, session *Session, password string) Response
	Continuation(state State) Continuation
}

// SessionResolver looks up the live session for a bridged identity.
type SessionResolver interface {
	ResolveSession(ctx context.Context, identity string) (*Session, error)
}

type LoginActivity struct {
	ID         string
	Identity   string
	Stage      State
	State      State
	Status     int
	ErrCode    string
	OccurredAt time.Time
}

type ActivityRecorder interface {
	Record(ctx context.Context, entry LoginActivity) error
}

type LoginActivityFilter struct {
	Identity string
	Stage    State
	Page     int
	PerPage  int
}

type LoginActivityPage struct {
	Items   []LoginActivity
	Page    int
	PerPage int
	Total   int
}

// LoginStatus summarizes the interactive login state of one identity.
type LoginStatus struct {
	Identity         string
	PendingAction    string
	Interactive      bool
	AwaitingPassword bool
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type JobExecutionMessage struct {
	JobID          string
	ScriptPath     string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}
