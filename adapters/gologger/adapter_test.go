package gologger

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-bridgeauth/core"

	glog "github.com/goliatone/go-logger/glog"
)

func TestResolveDeterministicFallback(t *testing.T) {
	loggerOnly := &capturingLogger{id: "logger"}
	providerLogger := &capturingLogger{id: "provider"}
	provider := &capturingProvider{logger: providerLogger}

	_, resolved := Resolve("bridgeauth", provider, loggerOnly)
	if got := resolved.(*capturingLogger); got.id != "provider" {
		t.Fatalf("expected provider logger precedence, got %q", got.id)
	}

	resolvedProvider, resolved := Resolve("bridgeauth", nil, loggerOnly)
	if got := resolved.(*capturingLogger); got.id != "logger" {
		t.Fatalf("expected direct logger when provider is nil, got %q", got.id)
	}
	if resolvedProvider == nil {
		t.Fatalf("expected provider wrapper from logger")
	}

	if _, resolved = Resolve("bridgeauth", nil, nil); resolved == nil {
		t.Fatalf("expected nop logger fallback")
	}
}

func TestResolveForJobBridgesToGoJob(t *testing.T) {
	providerLogger := &capturingLogger{id: "provider"}
	provider := &capturingProvider{logger: providerLogger}

	jobProvider, jobLogger := ResolveForJob(provider, nil)
	if jobProvider == nil || jobLogger == nil {
		t.Fatalf("expected go-job bridges")
	}

	jobProvider.GetLogger(JobLoggerName).Info("worker started", "queue", "post_login")

	captured := providerLogger.lastInfo
	if captured.msg != "worker started" {
		t.Fatalf("expected bridged message, got %q", captured.msg)
	}
	if len(captured.args) < 2 || captured.args[0] != "queue" || captured.args[1] != "post_login" {
		t.Fatalf("expected bridged args, got %#v", captured.args)
	}
}

func TestNewJobHookLogsOutcomes(t *testing.T) {
	logger := &capturingLogger{id: "jobs"}
	hook := NewJobHook(nil, logger)

	hook.OnFailure(context.Background(), core.JobWorkerEvent{
		Message: &core.JobExecutionMessage{JobID: core.PostLoginJobID},
		Err:     errors.New("sync failed"),
	})
	if logger.lastError != "post-login job failed" {
		t.Fatalf("expected failure to be logged, got %q", logger.lastError)
	}
}

var (
	_ glog.Logger         = (*capturingLogger)(nil)
	_ glog.LoggerProvider = (*capturingProvider)(nil)
)

type capturingProvider struct {
	logger *capturingLogger
}

func (p *capturingProvider) GetLogger(string) glog.Logger {
	if p == nil || p.logger == nil {
		return glog.Nop()
	}
	return p.logger
}

type infoCall struct {
	msg  string
	args []any
}

type capturingLogger struct {
	id        string
	lastInfo  infoCall
	lastError string
}

func (l *capturingLogger) Trace(string, ...any) {}
func (l *capturingLogger) Debug(string, ...any) {}
func (l *capturingLogger) Warn(string, ...any)  {}
func (l *capturingLogger) Fatal(string, ...any) {}

func (l *capturingLogger) Error(msg string, _ ...any) {
	l.lastError = msg
}

func (l *capturingLogger) Info(msg string, args ...any) {
	l.lastInfo = infoCall{
		msg:  msg,
		args: append([]any(nil), args...),
	}
}

func (l *capturingLogger) WithContext(context.Context) glog.Logger {
	return l
}
