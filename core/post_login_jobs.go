package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const PostLoginJobID = "bridgeauth.post_login.sync"

// NewPostLoginJobMessage builds the queued form of a post-login sync. One
// message is kept per identity and account.
func NewPostLoginJobMessage(session *Session, info AccountInfo) *JobExecutionMessage {
	identity := session.Identity()
	return &JobExecutionMessage{
		JobID:      PostLoginJobID,
		ScriptPath: PostLoginJobID,
		Parameters: map[string]any{
			"identity":   identity,
			"account_id": info.ID,
			"username":   info.Username,
			"bot":        info.Bot,
		},
		IdempotencyKey: "post_login:" + identity + ":" + strings.TrimSpace(info.ID),
		DedupPolicy:    "drop",
	}
}

// JobPostLoginTrigger hands the post-login sync to a job queue.
type JobPostLoginTrigger struct {
	enqueuer JobEnqueuer
	logger   Logger
}

func NewJobPostLoginTrigger(enqueuer JobEnqueuer, logger Logger) *JobPostLoginTrigger {
	return &JobPostLoginTrigger{enqueuer: enqueuer, logger: logger}
}

func (t *JobPostLoginTrigger) Schedule(ctx context.Context, session *Session, info AccountInfo) {
	if t == nil || t.enqueuer == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	msg := NewPostLoginJobMessage(session, info)
	go t.enqueue(context.WithoutCancel(ctx), msg)
}

func (t *JobPostLoginTrigger) enqueue(ctx context.Context, msg *JobExecutionMessage) {
	fields := map[string]any{
		"job_id":     msg.JobID,
		"identity":   msg.Parameters["identity"],
		"account_id": msg.Parameters["account_id"],
	}
	if err := t.enqueuer.Enqueue(ctx, msg); err != nil {
		fields["error"] = err.Error()
		logWithLevel(ctx, t.logger, "error", "post-login job enqueue failed", fields)
		return
	}
	logWithLevel(ctx, t.logger, "info", "post-login job enqueued", fields)
}

// PostLoginJobRunner consumes queued post-login syncs one delivery at a time.
type PostLoginJobRunner struct {
	dequeuer   JobDequeuer
	sessions   SessionResolver
	run        PostLoginFunc
	hook       JobWorkerHook
	retryDelay time.Duration
	maxAttempt int

	mu       sync.Mutex
	attempts map[string]int
}

type RunnerOption func(*PostLoginJobRunner)

func WithRunnerHook(hook JobWorkerHook) RunnerOption {
	return func(r *PostLoginJobRunner) {
		r.hook = hook
	}
}

func WithRunnerRetryDelay(delay time.Duration) RunnerOption {
	return func(r *PostLoginJobRunner) {
		r.retryDelay = delay
	}
}

// WithRunnerMaxAttempts stops requeueing once a job has failed max times.
func WithRunnerMaxAttempts(max int) RunnerOption {
	return func(r *PostLoginJobRunner) {
		r.maxAttempt = max
	}
}

func NewPostLoginJobRunner(
	dequeuer JobDequeuer,
	sessions SessionResolver,
	run PostLoginFunc,
	opts ...RunnerOption,
) *PostLoginJobRunner {
	runner := &PostLoginJobRunner{
		dequeuer: dequeuer,
		sessions: sessions,
		run:      run,
		attempts: map[string]int{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(runner)
		}
	}
	return runner
}

// attemptNacker applies a retry policy and reports the options it nacked with.
type attemptNacker interface {
	NackForAttempt(ctx context.Context, opts JobNackOptions, attempt int) (JobNackOptions, error)
}

// RunOnce dequeues and processes a single delivery. Processing failures are
// nacked and reported to the hook; only queue errors are returned.
func (r *PostLoginJobRunner) RunOnce(ctx context.Context) error {
	if r == nil || r.dequeuer == nil {
		return fmt.Errorf("core: post-login runner is not configured")
	}
	delivery, err := r.dequeuer.Dequeue(ctx)
	if err != nil {
		return err
	}
	if delivery == nil {
		return nil
	}

	msg := delivery.Message()
	attempt := r.nextAttempt(msg)
	event := JobWorkerEvent{Message: msg, Attempt: attempt, StartedAt: time.Now().UTC()}
	r.notify(ctx, "start", event)

	runErr := r.process(ctx, msg)
	event.Duration = time.Since(event.StartedAt)
	if runErr == nil {
		r.forget(msg)
		r.notify(ctx, "success", event)
		return delivery.Ack(ctx)
	}

	event.Err = runErr
	event.Delay = r.retryDelay
	opts := JobNackOptions{Delay: r.retryDelay, Requeue: true, Reason: runErr.Error()}
	if r.maxAttempt > 0 && attempt >= r.maxAttempt {
		opts.Requeue = false
	}
	applied := opts
	if nacker, ok := delivery.(attemptNacker); ok {
		applied, err = nacker.NackForAttempt(ctx, opts, attempt)
	} else {
		err = delivery.Nack(ctx, opts)
	}
	// A final nack ends this key's retries; a later job with the same key starts over.
	if err == nil && (!applied.Requeue || applied.DeadLetter) {
		r.forget(msg)
	}
	r.notify(ctx, "failure", event)
	return err
}

func (r *PostLoginJobRunner) process(ctx context.Context, msg *JobExecutionMessage) error {
	if msg == nil {
		return fmt.Errorf("core: post-login delivery has no message")
	}
	if msg.JobID != PostLoginJobID {
		return fmt.Errorf("core: unexpected job %q", msg.JobID)
	}
	identity, _ := msg.Parameters["identity"].(string)
	if strings.TrimSpace(identity) == "" {
		return fmt.Errorf("core: post-login job is missing identity")
	}
	if r.sessions == nil || r.run == nil {
		return fmt.Errorf("core: post-login runner is not configured")
	}
	session, err := r.sessions.ResolveSession(ctx, identity)
	if err != nil {
		return err
	}
	info := AccountInfo{}
	info.ID, _ = msg.Parameters["account_id"].(string)
	info.Username, _ = msg.Parameters["username"].(string)
	info.Bot, _ = msg.Parameters["bot"].(bool)
	return r.run(ctx, session, info)
}

func (r *PostLoginJobRunner) notify(ctx context.Context, phase string, event JobWorkerEvent) {
	if r.hook == nil {
		return
	}
	switch phase {
	case "start":
		r.hook.OnStart(ctx, event)
	case "success":
		r.hook.OnSuccess(ctx, event)
	default:
		r.hook.OnFailure(ctx, event)
	}
}

func (r *PostLoginJobRunner) nextAttempt(msg *JobExecutionMessage) int {
	key := attemptKey(msg)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[key]++
	return r.attempts[key]
}

func (r *PostLoginJobRunner) forget(msg *JobExecutionMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, attemptKey(msg))
}

func attemptKey(msg *JobExecutionMessage) string {
	if msg == nil {
		return ""
	}
	if key := strings.TrimSpace(msg.IdempotencyKey); key != "" {
		return key
	}
	return msg.JobID
}

var _ PostLoginTrigger = (*JobPostLoginTrigger)(nil)
