package core

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

func (s *Service) observeStage(
	ctx context.Context,
	startedAt time.Time,
	stage State,
	resp *Response,
	fields map[string]any,
) {
	if s == nil {
		return
	}
	operation := "submit_" + normalizeOperation(string(stage))
	status := "deferred"
	contextFields := cloneFields(fields)
	contextFields["event_type"] = operation
	contextFields["stage"] = string(stage)
	contextFields["duration_ms"] = time.Since(startedAt).Milliseconds()
	if resp != nil {
		status = "success"
		if resp.Failed() {
			status = "failure"
		}
		contextFields["state"] = string(resp.State)
		contextFields["status"] = resp.Status
		if resp.ErrCode != "" {
			contextFields["errcode"] = resp.ErrCode
		}
	}

	tags := map[string]string{
		"operation": operation,
		"outcome":   status,
	}
	if resp != nil {
		tags["status_code"] = strconv.Itoa(resp.Status)
		tags["state"] = string(resp.State)
	}

	s.recordCounter(ctx, stageCounterName(operation), 1, tags)
	s.recordHistogram(ctx, stageDurationName(operation), float64(time.Since(startedAt).Milliseconds()), tags)

	switch status {
	case "failure":
		s.logWarn(ctx, operation+" rejected", contextFields)
	case "deferred":
		s.logInfo(ctx, operation+" deferred to password stage", contextFields)
	default:
		s.logInfo(ctx, operation+" succeeded", contextFields)
	}
}

func (s *Service) logInfo(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "info", message, fields)
}

func (s *Service) logWarn(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "warn", message, fields)
}

func (s *Service) logError(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "error", message, fields)
}

func (s *Service) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	logWithLevel(ctx, s.logger, level, message, fields)
}

func logWithLevel(ctx context.Context, logger Logger, level string, message string, fields map[string]any) {
	if logger == nil {
		return
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	redacted := RedactSensitiveMap(fields)
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(redacted))
	}
	args := flattenFields(redacted)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (s *Service) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if s == nil || s.metricsRecorder == nil {
		return
	}
	s.metricsRecorder.IncCounter(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func (s *Service) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if s == nil || s.metricsRecorder == nil {
		return
	}
	s.metricsRecorder.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
