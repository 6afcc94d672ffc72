// Package metrics exposes Prometheus instrumentation for the hoopsim service.
// A process-wide Manager is registered on a private registry at init; the
// package-level Record*/Update* helpers write to it.
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Side labels for per-team counters.
const (
	SideHome = "home"
	SideAway = "away"
)

// Job outcome labels.
const (
	JobDone   = "done"
	JobFailed = "failed"
)

// Manager owns every hoopsim collector.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Simulation
	gamesSimulated    prometheus.Counter
	seriesSimulated   prometheus.Counter
	possessions       prometheus.Counter
	points            *prometheus.CounterVec
	turnovers         prometheus.Counter
	simulationLatency prometheus.Histogram
	simulationErrors  prometheus.Counter

	// Jobs
	jobsSubmitted prometheus.Counter
	jobsDuplicate prometheus.Counter
	jobsFinished  *prometheus.CounterVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Standings
	standingsTeams         prometheus.Gauge
	standingsUpdateLatency prometheus.Histogram
	standingsQueryLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics manager

// Private registry so /metrics only carries hoopsim series.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // registers the global manager once
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager builds a Manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hoopsim",
		subsystem:        "engine",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) register() {
	m.gamesSimulated = m.counter("games_simulated_total", "Games simulated to completion")
	m.seriesSimulated = m.counter("series_simulated_total", "Series simulated to completion")
	m.possessions = m.counter("possessions_total", "Possessions resolved across all games")
	m.points = m.counterVec("points_total", "Points scored, by side", "side")
	m.turnovers = m.counter("turnovers_total", "Turnovers committed across all games")
	m.simulationLatency = m.histogram("simulation_latency_milliseconds", "Wall time to simulate one game")
	m.simulationErrors = m.counter("simulation_errors_total", "Simulations rejected before tip-off")

	m.jobsSubmitted = m.counter("jobs_submitted_total", "Asynchronous game jobs accepted")
	m.jobsDuplicate = m.counter("jobs_duplicate_total", "Job submissions rejected as duplicate request ids")
	m.jobsFinished = m.counterVec("jobs_finished_total", "Asynchronous game jobs finished, by status", "status")

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size over capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Enqueue attempts rejected")

	m.workerCount = m.gauge("worker_count", "Configured workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently simulating")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time a worker spends on one job")
	m.workerErrors = m.counter("worker_errors_total", "Jobs that failed in a worker")

	m.standingsTeams = m.gauge("standings_teams", "Teams with at least one recorded game")
	m.standingsUpdateLatency = m.histogram("standings_update_latency_milliseconds", "Time to fold a game into the standings")
	m.standingsQueryLatency = m.histogram("standings_query_latency_milliseconds", "Time to read the standings table")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: "http_request_duration_milliseconds",
		Help: "HTTP request duration", ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Live goroutines")
}

// GameRecord is the summary of one simulated game used for instrumentation.
type GameRecord struct {
	HomePoints  int
	AwayPoints  int
	Possessions int
	Turnovers   int
	LatencyMs   float64
}

// ObserveGame records one finished game.
func (m *Manager) ObserveGame(g GameRecord) {
	if !m.enabled {
		return
	}
	m.gamesSimulated.Inc()
	m.possessions.Add(float64(g.Possessions))
	m.points.WithLabelValues(SideHome).Add(float64(g.HomePoints))
	m.points.WithLabelValues(SideAway).Add(float64(g.AwayPoints))
	m.turnovers.Add(float64(g.Turnovers))
	m.simulationLatency.Observe(g.LatencyMs)
}

// ObserveRuntime samples heap usage and goroutine count.
func (m *Manager) ObserveRuntime() {
	if !m.enabled {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.HeapInuse))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// RecordGame records one finished game on the global manager.
func RecordGame(g GameRecord) { globalManager.ObserveGame(g) }

// RecordSeries counts a finished series.
func RecordSeries() { globalManager.seriesSimulated.Inc() }

// RecordSimulationError counts a simulation rejected before tip-off.
func RecordSimulationError() { globalManager.simulationErrors.Inc() }

// RecordJobSubmitted counts an accepted job.
func RecordJobSubmitted() { globalManager.jobsSubmitted.Inc() }

// RecordJobDuplicate counts a job rejected by request id.
func RecordJobDuplicate() { globalManager.jobsDuplicate.Inc() }

// RecordJobFinished counts a job reaching a terminal status.
func RecordJobFinished(status string) { globalManager.jobsFinished.WithLabelValues(status).Inc() }

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(ratio float64) { globalManager.queueUtilization.Set(ratio) }

// RecordQueueEnqueue counts an enqueued job.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue counts a dequeued job.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) { globalManager.workerActiveCount.Set(float64(count)) }

// RecordWorkerProcessingLatency observes one job's processing time.
func RecordWorkerProcessingLatency(ms float64) { globalManager.workerProcessingLatency.Observe(ms) }

// RecordWorkerError counts a failed job.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// UpdateStandingsTeams sets the number of teams in the standings.
func UpdateStandingsTeams(n int) { globalManager.standingsTeams.Set(float64(n)) }

// RecordStandingsUpdateLatency observes a standings write.
func RecordStandingsUpdateLatency(ms float64) { globalManager.standingsUpdateLatency.Observe(ms) }

// RecordStandingsQueryLatency observes a standings read.
func RecordStandingsQueryLatency(ms float64) { globalManager.standingsQueryLatency.Observe(ms) }

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByComponent counts an error against a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// SampleRuntime refreshes the runtime gauges on the global manager.
func SampleRuntime() { globalManager.ObserveRuntime() }

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
