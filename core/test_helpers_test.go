package core

import (
	"context"
	"sync"
)

type stubProviderClient struct {
	mu sync.Mutex

	requestedPhones []string
	requestErr      error

	codeInfo AccountInfo
	codeErr  error

	passwordInfo AccountInfo
	passwordErr  error

	tokenInfo AccountInfo
	tokenErr  error
}

func (c *stubProviderClient) RequestCode(_ context.Context, phone string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestedPhones = append(c.requestedPhones, phone)
	return c.requestErr
}

func (c *stubProviderClient) SignInCode(context.Context, string) (AccountInfo, error) {
	if c.codeErr != nil {
		return AccountInfo{}, c.codeErr
	}
	return c.codeInfo, nil
}

func (c *stubProviderClient) SignInPassword(context.Context, string) (AccountInfo, error) {
	if c.passwordErr != nil {
		return AccountInfo{}, c.passwordErr
	}
	return c.passwordInfo, nil
}

func (c *stubProviderClient) SignInBotToken(context.Context, string) (AccountInfo, error) {
	if c.tokenErr != nil {
		return AccountInfo{}, c.tokenErr
	}
	return c.tokenInfo, nil
}

func (c *stubProviderClient) phones() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.requestedPhones))
	copy(out, c.requestedPhones)
	return out
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (p stubLoggerProvider) GetLogger(string) Logger {
	return p.logger
}

type recordingTrigger struct {
	mu    sync.Mutex
	calls []AccountInfo
}

func (t *recordingTrigger) Schedule(_ context.Context, _ *Session, info AccountInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, info)
}

func (t *recordingTrigger) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

type captureActivityRecorder struct {
	mu      sync.Mutex
	entries []LoginActivity
	err     error
}

func (r *captureActivityRecorder) Record(_ context.Context, entry LoginActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return r.err
}

func (r *captureActivityRecorder) snapshot() []LoginActivity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LoginActivity, len(r.entries))
	copy(out, r.entries)
	return out
}

func newTestService(t interface{ Fatalf(string, ...any) }, opts ...Option) *Service {
	base := []Option{
		WithLoggerProvider(stubLoggerProvider{logger: stubLogger{}}),
		WithLogger(stubLogger{}),
	}
	svc, err := NewService(DefaultConfig(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func noopContinuation(context.Context, *Session, string) Response {
	return Response{}
}
