package core

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}

func findLog(records []capturedLog, level string, msg string) (capturedLog, bool) {
	for _, record := range records {
		if record.level == level && record.msg == msg {
			return record, true
		}
	}
	return capturedLog{}, false
}

func hasCounter(counters []capturedCounter, name string, outcome string) bool {
	for _, counter := range counters {
		if counter.name == name && counter.tags["outcome"] == outcome {
			return true
		}
	}
	return false
}

func TestServiceObservability_PhoneSuccess(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	svc := newTestService(t,
		WithMetricsRecorder(metrics),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithLogger(logger),
	)
	session := NewSession("@alice:example.org", &stubProviderClient{})

	svc.SubmitPhone(context.Background(), session, "+15550001111")

	if !hasCounter(metrics.counters, "bridgeauth.submit_request.total", "success") {
		t.Fatalf("expected bridgeauth.submit_request.total success counter")
	}
	if len(metrics.histograms) != 1 || metrics.histograms[0].name != "bridgeauth.submit_request.duration_ms" {
		t.Fatalf("expected submit_request duration histogram, got %+v", metrics.histograms)
	}
	record, ok := findLog(logger.snapshot(), "info", "submit_request succeeded")
	if !ok {
		t.Fatalf("expected submit_request succeeded log")
	}
	if record.fields["phone"] != RedactedValue {
		t.Fatalf("expected phone to be redacted, got %v", record.fields["phone"])
	}
	if record.fields["identity"] != "@alice:example.org" {
		t.Fatalf("expected identity field, got %v", record.fields["identity"])
	}
}

func TestServiceObservability_UnclassifiedFailureLogsDetail(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	svc := newTestService(t,
		WithMetricsRecorder(metrics),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithLogger(logger),
	)
	client := &stubProviderClient{passwordErr: errors.New("rpc connection reset")}
	session := NewSession("@bob:example.org", client)

	resp := svc.SubmitPassword(context.Background(), session, "hunter2")

	if resp.Status != 500 || resp.ErrCode != ErrCodeException {
		t.Fatalf("expected 500/exception, got %d/%s", resp.Status, resp.ErrCode)
	}
	if resp.Error != "Internal server error while sending password." {
		t.Fatalf("unexpected error message %q", resp.Error)
	}
	record, ok := findLog(logger.snapshot(), "error", "unclassified provider failure during password stage")
	if !ok {
		t.Fatalf("expected unclassified failure error log")
	}
	if record.fields["error"] != "rpc connection reset" {
		t.Fatalf("expected provider error detail in log, got %v", record.fields["error"])
	}
	if record.fields["identity"] != "@bob:example.org" {
		t.Fatalf("expected identity in log, got %v", record.fields["identity"])
	}
	if !hasCounter(metrics.counters, "bridgeauth.submit_password.total", "failure") {
		t.Fatalf("expected submit_password failure counter")
	}
}

func TestServiceObservability_DeferredCodeStage(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	svc := newTestService(t,
		WithMetricsRecorder(metrics),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithLogger(logger),
	)
	client := &stubProviderClient{codeErr: NewProviderError(FailurePasswordNeeded, nil)}
	session := NewSession("@carol:example.org", client)

	if resp := svc.SubmitCode(context.Background(), session, "12345", true); resp != nil {
		t.Fatalf("expected deferred response, got %+v", resp)
	}
	if !hasCounter(metrics.counters, "bridgeauth.submit_code.total", "deferred") {
		t.Fatalf("expected submit_code deferred counter")
	}
	if _, ok := findLog(logger.snapshot(), "info", "submit_code deferred to password stage"); !ok {
		t.Fatalf("expected deferred log")
	}
}

func TestStageMetricNames(t *testing.T) {
	if got := stageCounterName("submit_token"); got != "bridgeauth.submit_token.total" {
		t.Fatalf("unexpected counter name %q", got)
	}
	if got := stageDurationName("submit_token"); got != "bridgeauth.submit_token.duration_ms" {
		t.Fatalf("unexpected histogram name %q", got)
	}
}
