// Package metrics exposes Prometheus collectors for orchestration runs,
// worker nodes, model requests and tool calls.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "logimesh"

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// runsTotal counts orchestration runs by outcome.
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of orchestration runs",
		},
		[]string{"status"}, // status: success, error
	)

	// runsActive is a gauge of currently executing runs.
	runsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_active",
			Help:      "Number of currently executing orchestration runs",
		},
	)

	// runDuration is a histogram of end-to-end run duration.
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Histogram of orchestration run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"status"},
	)

	// workerInvocationsTotal counts worker node invocations.
	workerInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_invocations_total",
			Help:      "Total number of worker node invocations",
		},
		[]string{"agent", "status"},
	)

	// workerDuration is a histogram of worker node duration.
	workerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_duration_seconds",
			Help:      "Duration of worker node invocations in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"agent"},
	)

	// toolResultsFiltered counts tool result messages removed from worker output.
	toolResultsFiltered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_results_filtered_total",
			Help:      "Total number of tool result messages filtered from worker output",
		},
		[]string{"agent"},
	)

	// modelRequestDuration is a histogram of LLM provider call duration.
	modelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_request_duration_seconds",
			Help:      "Duration of LLM provider calls in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	// modelRequestsTotal counts LLM provider calls.
	modelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_requests_total",
			Help:      "Total number of LLM provider calls",
		},
		[]string{"provider", "model", "status"},
	)

	// modelTokensTotal counts tokens consumed by provider calls.
	modelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_tokens_total",
			Help:      "Total tokens consumed by LLM provider calls",
		},
		[]string{"provider", "model", "type"}, // type: input, output
	)

	// toolCallDuration is a histogram of tool call duration.
	toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Duration of tool calls in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"tool"},
	)

	// toolCallsTotal counts tool calls.
	toolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool calls",
		},
		[]string{"tool", "status"},
	)

	// allMetrics is a list of all metrics for registration.
	allMetrics = []prometheus.Collector{
		runsTotal,
		runsActive,
		runDuration,
		workerInvocationsTotal,
		workerDuration,
		toolResultsFiltered,
		modelRequestDuration,
		modelRequestsTotal,
		modelTokensTotal,
		toolCallDuration,
		toolCallsTotal,
	}
)

// NewRegistry returns a registry holding every logimesh collector plus the Go
// runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()

	for _, c := range allMetrics {
		reg.MustRegister(c)
	}

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return reg
}

// Handler serves the metrics of reg in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// RecordRunStart records the start of an orchestration run.
func RecordRunStart() {
	runsActive.Inc()
}

// RecordRunEnd records a finished orchestration run.
func RecordRunEnd(status string, durationSeconds float64) {
	runsActive.Dec()
	runsTotal.WithLabelValues(status).Inc()
	runDuration.WithLabelValues(status).Observe(durationSeconds)
}

// RecordWorker records one worker node invocation.
func RecordWorker(agent, status string, filtered int, durationSeconds float64) {
	workerInvocationsTotal.WithLabelValues(agent, status).Inc()
	workerDuration.WithLabelValues(agent).Observe(durationSeconds)

	if filtered > 0 {
		toolResultsFiltered.WithLabelValues(agent).Add(float64(filtered))
	}
}

// RecordModelRequest records an LLM provider call.
func RecordModelRequest(provider, model, status string, durationSeconds float64) {
	modelRequestDuration.WithLabelValues(provider, model).Observe(durationSeconds)
	modelRequestsTotal.WithLabelValues(provider, model, status).Inc()
}

// RecordModelTokens records token consumption.
func RecordModelTokens(provider, model string, inputTokens, outputTokens int) {
	if inputTokens > 0 {
		modelTokensTotal.WithLabelValues(provider, model, "input").Add(float64(inputTokens))
	}

	if outputTokens > 0 {
		modelTokensTotal.WithLabelValues(provider, model, "output").Add(float64(outputTokens))
	}
}

// RecordToolCall records a tool call.
func RecordToolCall(toolName, status string, durationSeconds float64) {
	toolCallDuration.WithLabelValues(toolName).Observe(durationSeconds)
	toolCallsTotal.WithLabelValues(toolName, status).Inc()
}

// Status maps an error to a status label value.
func Status(err error) string {
	if err != nil {
		return StatusError
	}

	return StatusSuccess
}
