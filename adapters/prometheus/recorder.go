// Package prometheus exports login handshake metrics through client_golang.
package prometheus

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/goliatone/go-bridgeauth/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultLabels are the tags the handshake attaches to stage metrics.
var DefaultLabels = []string{"operation", "outcome", "status_code", "state"}

// DefaultBuckets cover stage latencies in milliseconds.
var DefaultBuckets = prometheus.ExponentialBuckets(5, 2, 12)

// Recorder implements core.MetricsRecorder. Vectors are created on first use
// with a fixed label set; tags outside it are dropped and missing tags are
// recorded as empty.
type Recorder struct {
	registry *prometheus.Registry
	labels   []string
	buckets  []float64

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

type Option func(*Recorder)

func WithLabels(labels ...string) Option {
	return func(r *Recorder) {
		if len(labels) > 0 {
			r.labels = append([]string(nil), labels...)
		}
	}
}

func WithBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = append([]float64(nil), buckets...)
		}
	}
}

func NewRecorder(registry *prometheus.Registry, opts ...Option) *Recorder {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	r := &Recorder{
		registry:   registry,
		labels:     append([]string(nil), DefaultLabels...),
		buckets:    DefaultBuckets,
		counters:   map[string]*prometheus.CounterVec{},
		histograms: map[string]*prometheus.HistogramVec{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value < 0 {
		return
	}
	counter := r.counter(metricName(name))
	if counter == nil {
		return
	}
	counter.WithLabelValues(r.labelValues(tags)...).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	histogram := r.histogram(metricName(name))
	if histogram == nil {
		return
	}
	histogram.WithLabelValues(r.labelValues(tags)...).Observe(value)
}

func (r *Recorder) counter(name string) *prometheus.CounterVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.counters[name]; ok {
		return vec
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: "Login handshake counter " + name + ".",
	}, r.labels)
	if err := r.registry.Register(vec); err != nil {
		return nil
	}
	r.counters[name] = vec
	return vec
}

func (r *Recorder) histogram(name string) *prometheus.HistogramVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.histograms[name]; ok {
		return vec
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    "Login handshake histogram " + name + ".",
		Buckets: r.buckets,
	}, r.labels)
	if err := r.registry.Register(vec); err != nil {
		return nil
	}
	r.histograms[name] = vec
	return vec
}

func (r *Recorder) labelValues(tags map[string]string) []string {
	values := make([]string, len(r.labels))
	for i, label := range r.labels {
		values[i] = tags[label]
	}
	return values
}

// metricName maps dotted names such as bridgeauth.submit_code.total onto the
// Prometheus charset.
func metricName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

var _ core.MetricsRecorder = (*Recorder)(nil)
