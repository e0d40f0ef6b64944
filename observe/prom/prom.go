package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a Prometheus-backed implementation of the task.Monitor
// interface. All collectors are registered on the Registerer passed to New.
type Metrics struct {
	activeTasks   prometheus.Gauge
	tasksSpawned  prometheus.Counter
	stopRequests  prometheus.Counter
	tasksFinished prometheus.Counter
	tasksErrored  prometheus.Counter
	tasksPanicked prometheus.Counter
	taskDuration  prometheus.Histogram
	joinWait      prometheus.Histogram
}

// New returns a Metrics monitor with its collectors registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		activeTasks: f.NewGauge(prometheus.GaugeOpts{
			Name: "stoptask_active_tasks",
			Help: "Number of tasks currently running.",
		}),
		tasksSpawned: f.NewCounter(prometheus.CounterOpts{
			Name: "stoptask_tasks_spawned_total",
			Help: "Total number of tasks spawned.",
		}),
		stopRequests: f.NewCounter(prometheus.CounterOpts{
			Name: "stoptask_stop_requests_total",
			Help: "Total number of effective stop requests (first request per task).",
		}),
		tasksFinished: f.NewCounter(prometheus.CounterOpts{
			Name: "stoptask_tasks_finished_total",
			Help: "Total number of tasks whose worker returned.",
		}),
		tasksErrored: f.NewCounter(prometheus.CounterOpts{
			Name: "stoptask_tasks_errored_total",
			Help: "Total number of tasks that finished with an error.",
		}),
		tasksPanicked: f.NewCounter(prometheus.CounterOpts{
			Name: "stoptask_tasks_panicked_total",
			Help: "Total number of tasks whose worker panicked.",
		}),
		taskDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stoptask_task_duration_seconds",
			Help:    "Worker run time from spawn to return.",
			Buckets: prometheus.DefBuckets,
		}),
		joinWait: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stoptask_join_wait_seconds",
			Help:    "Time the owner spent blocked in Join.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// TaskSpawned records a spawn.
func (m *Metrics) TaskSpawned(_ string) {
	m.tasksSpawned.Inc()
	m.activeTasks.Inc()
}

// StopRequested records the first effective stop request on a task.
func (m *Metrics) StopRequested(_ string) {
	m.stopRequests.Inc()
}

// TaskJoined records the owner's join wait.
func (m *Metrics) TaskJoined(_ string, wait time.Duration) {
	m.joinWait.Observe(wait.Seconds())
}

// TaskFinished records a worker return, tracking errors, panics and duration.
func (m *Metrics) TaskFinished(_ string, dur time.Duration, err error, panicked bool) {
	m.activeTasks.Dec()
	m.tasksFinished.Inc()
	if err != nil {
		m.tasksErrored.Inc()
	}
	if panicked {
		m.tasksPanicked.Inc()
	}
	m.taskDuration.Observe(dur.Seconds())
}
