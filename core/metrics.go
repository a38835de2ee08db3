package core

import (
	"context"
	"maps"
)

const metricPrefix = "bridgeauth."

// stageCounterName counts stage outcomes, e.g. bridgeauth.submit_code.total.
func stageCounterName(operation string) string {
	return metricPrefix + operation + ".total"
}

// stageDurationName is the stage latency histogram in milliseconds.
func stageDurationName(operation string) string {
	return metricPrefix + operation + ".duration_ms"
}

// NopMetricsRecorder discards login stage metrics. It is the default when no
// recorder is configured.
type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

// cloneTags hands recorders their own copy of the stage tags.
func cloneTags(tags map[string]string) map[string]string {
	copied := make(map[string]string, len(tags))
	maps.Copy(copied, tags)
	return copied
}

var _ MetricsRecorder = NopMetricsRecorder{}
