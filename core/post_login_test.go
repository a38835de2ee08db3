package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

type ctxKey string

func waitForLog(t *testing.T, logger *captureLogger, level string, msg string) capturedLog {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if record, ok := findLog(logger.snapshot(), level, msg); ok {
			return record
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s log %q", level, msg)
	return capturedLog{}
}

func TestGoroutineTrigger_DetachesCancellation(t *testing.T) {
	logger := newCaptureLogger()
	seen := make(chan error, 1)
	trigger := NewGoroutineTrigger(func(ctx context.Context, session *Session, info AccountInfo) error {
		if ctx.Value(ctxKey("request_id")) != "req_1" {
			seen <- errors.New("expected context values to be kept")
			return nil
		}
		seen <- ctx.Err()
		return nil
	}, logger)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey("request_id"), "req_1"))
	cancel()
	trigger.Schedule(ctx, NewSession("@alice:example.org", nil), AccountInfo{ID: "7"})

	select {
	case err := <-seen:
		if err != nil {
			t.Fatalf("unexpected continuation context: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("continuation did not run")
	}
	record := waitForLog(t, logger, "info", "post-login continuation finished")
	if record.fields["account_id"] != "7" {
		t.Fatalf("expected account_id field, got %v", record.fields["account_id"])
	}
}

func TestGoroutineTrigger_LogsFailureAndPanic(t *testing.T) {
	logger := newCaptureLogger()
	failing := NewGoroutineTrigger(func(context.Context, *Session, AccountInfo) error {
		return errors.New("sync failed")
	}, logger)
	failing.Schedule(context.Background(), NewSession("@alice:example.org", nil), AccountInfo{})
	record := waitForLog(t, logger, "error", "post-login continuation failed")
	if record.fields["error"] != "sync failed" {
		t.Fatalf("unexpected error field %v", record.fields["error"])
	}

	panicLogger := newCaptureLogger()
	panicking := NewGoroutineTrigger(func(context.Context, *Session, AccountInfo) error {
		panic("boom")
	}, panicLogger)
	panicking.Schedule(context.Background(), NewSession("@bob:example.org", nil), AccountInfo{})
	waitForLog(t, panicLogger, "error", "post-login continuation failed")
}

func TestLoggingJobHook(t *testing.T) {
	logger := newCaptureLogger()
	hook := LoggingJobHook{Logger: logger}
	event := JobWorkerEvent{
		Message: &JobExecutionMessage{
			JobID:      "bridgeauth.post_login.sync",
			Parameters: map[string]any{"identity": "@alice:example.org"},
		},
		Attempt: 2,
		Err:     errors.New("timeout"),
	}

	hook.OnFailure(context.Background(), event)
	hook.OnSuccess(context.Background(), JobWorkerEvent{Message: event.Message, Attempt: 1})

	failed, ok := findLog(logger.snapshot(), "error", "post-login job failed")
	if !ok {
		t.Fatalf("expected failure log")
	}
	if failed.fields["job_id"] != "bridgeauth.post_login.sync" || failed.fields["identity"] != "@alice:example.org" {
		t.Fatalf("unexpected failure fields %+v", failed.fields)
	}
	if failed.fields["error"] != "timeout" || failed.fields["attempt"] != 2 {
		t.Fatalf("unexpected failure fields %+v", failed.fields)
	}
	if _, ok := findLog(logger.snapshot(), "info", "post-login job finished"); !ok {
		t.Fatalf("expected success log")
	}
}
