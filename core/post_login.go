package core

import (
	"context"
	"fmt"
	"time"
)

type NopPostLoginTrigger struct{}

func (NopPostLoginTrigger) Schedule(context.Context, *Session, AccountInfo) {}

// GoroutineTrigger runs a PostLoginFunc on its own goroutine. The caller's
// context values are kept but its cancellation is not, so the sync outlives
// the request that triggered it.
type GoroutineTrigger struct {
	run    PostLoginFunc
	logger Logger
}

func NewGoroutineTrigger(run PostLoginFunc, logger Logger) *GoroutineTrigger {
	return &GoroutineTrigger{run: run, logger: logger}
}

func (t *GoroutineTrigger) Schedule(ctx context.Context, session *Session, info AccountInfo) {
	if t == nil || t.run == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	detached := context.WithoutCancel(ctx)
	go t.execute(detached, session, info)
}

func (t *GoroutineTrigger) execute(ctx context.Context, session *Session, info AccountInfo) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"identity":   session.Identity(),
		"account_id": info.ID,
	}
	var err error
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("core: post-login continuation panicked: %v", recovered)
		}
		fields["duration_ms"] = time.Since(startedAt).Milliseconds()
		if err != nil {
			fields["error"] = err.Error()
			logWithLevel(ctx, t.logger, "error", "post-login continuation failed", fields)
			return
		}
		logWithLevel(ctx, t.logger, "info", "post-login continuation finished", fields)
	}()
	err = t.run(ctx, session, info)
}

// LoggingJobHook reports post-login job outcomes from a worker.
type LoggingJobHook struct {
	Logger Logger
}

func (h LoggingJobHook) OnStart(ctx context.Context, event JobWorkerEvent) {
	logWithLevel(ctx, h.Logger, "info", "post-login job started", jobEventFields(event))
}

func (h LoggingJobHook) OnSuccess(ctx context.Context, event JobWorkerEvent) {
	logWithLevel(ctx, h.Logger, "info", "post-login job finished", jobEventFields(event))
}

func (h LoggingJobHook) OnFailure(ctx context.Context, event JobWorkerEvent) {
	logWithLevel(ctx, h.Logger, "error", "post-login job failed", jobEventFields(event))
}

func (h LoggingJobHook) OnRetry(ctx context.Context, event JobWorkerEvent) {
	logWithLevel(ctx, h.Logger, "warn", "post-login job retrying", jobEventFields(event))
}

func jobEventFields(event JobWorkerEvent) map[string]any {
	fields := map[string]any{
		"attempt":     event.Attempt,
		"duration_ms": event.Duration.Milliseconds(),
	}
	if event.Message != nil {
		fields["job_id"] = event.Message.JobID
		if identity, ok := event.Message.Parameters["identity"]; ok {
			fields["identity"] = identity
		}
	}
	if event.Err != nil {
		fields["error"] = event.Err.Error()
	}
	return fields
}

var (
	_ PostLoginTrigger = NopPostLoginTrigger{}
	_ PostLoginTrigger = (*GoroutineTrigger)(nil)
	_ JobWorkerHook    = LoggingJobHook{}
)
