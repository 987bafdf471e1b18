package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	recapPlanner = "recap_planner"

	jobsCreatedTotal = "jobs_created_total"
	JobStatusCount   = "job_status_count"
	probeResultTotal = "video_probe_results_total"

	// Labels
	jobStatusLabel   = "status"
	probeResultLabel = "result"
)

var jobStatusCountLabels = []string{
	jobStatusLabel,
}

var probeResultTotalLabels = []string{
	probeResultLabel,
}

/**
* Metrics definition
**/
var jobsCreatedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: recapPlanner,
		Name:      jobsCreatedTotal,
		Help:      "number of recap generation jobs created",
	},
)

var jobStatusCountMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: recapPlanner,
		Name:      JobStatusCount,
		Help:      "metrics to record the number of jobs in each status",
	},
	jobStatusCountLabels,
)

var probeResultTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: recapPlanner,
		Name:      probeResultTotal,
		Help:      "number of video readiness probes partitioned by result",
	},
	probeResultTotalLabels,
)

func IncreaseJobsCreatedMetric() {
	jobsCreatedTotalMetric.Inc()
}

func UpdateJobStatusCountMetric(status string, count int64) {
	labels := prometheus.Labels{
		jobStatusLabel: status,
	}
	jobStatusCountMetric.With(labels).Set(float64(count))
}

func IncreaseProbeResultMetric(result string) {
	labels := prometheus.Labels{
		probeResultLabel: result,
	}
	probeResultTotalMetric.With(labels).Inc()
}

type PrometheusMetricsHandler struct{}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	return &PrometheusMetricsHandler{}
}

func (h *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsCreatedTotalMetric)
	prometheus.MustRegister(jobStatusCountMetric)
	prometheus.MustRegister(probeResultTotalMetric)
}
