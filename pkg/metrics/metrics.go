package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for conduit components.
type Registry struct {
	// Channel Metrics
	ChannelSends        *prometheus.CounterVec
	ChannelReceives     *prometheus.CounterVec
	ChannelBufferUsage  *prometheus.GaugeVec
	ChannelCapacity     *prometheus.GaugeVec
	ChannelClosed       *prometheus.GaugeVec
	ChannelWaitDuration *prometheus.HistogramVec

	// Wait Group Metrics
	WaitGroupTasksStarted   *prometheus.CounterVec
	WaitGroupTasksCompleted *prometheus.CounterVec
	WaitGroupTasksPanicked  *prometheus.CounterVec
	WaitGroupOutstanding    *prometheus.GaugeVec
	WaitGroupTaskDuration   *prometheus.HistogramVec

	// Worker Pool Metrics
	TasksExecuted         *prometheus.CounterVec
	TasksCompleted        *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
	WorkerPoolSize        *prometheus.GaugeVec
	WorkerPoolActive      *prometheus.GaugeVec
	WorkerPoolQueued      *prometheus.GaugeVec

	// Shared Instance Metrics
	SharedInstances     *prometheus.GaugeVec
	SharedConstructions *prometheus.CounterVec
	SharedEvictions     *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by conduit components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{
		Enabled:   true,
		Registry:  reg,
		Namespace: DefaultNamespace,
	})
}

// NewRegistryWithConfig creates a metrics registry honoring the namespace and
// constant labels of config.
func NewRegistryWithConfig(config Config) *Registry {
	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := config.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	factory := promauto.With(reg)
	labels := config.Labels

	return &Registry{
		// Channel Metrics
		ChannelSends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "channel",
				Name:        "sends_total",
				Help:        "Total number of send attempts by outcome",
				ConstLabels: labels,
			},
			[]string{"channel_name", "outcome"},
		),

		ChannelReceives: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "channel",
				Name:        "receives_total",
				Help:        "Total number of receive attempts by outcome",
				ConstLabels: labels,
			},
			[]string{"channel_name", "outcome"},
		),

		ChannelBufferUsage: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "channel",
				Name:        "buffer_usage",
				Help:        "Number of values currently buffered",
				ConstLabels: labels,
			},
			[]string{"channel_name"},
		),

		ChannelCapacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "channel",
				Name:        "capacity",
				Help:        "Channel buffer capacity (0 for rendezvous channels)",
				ConstLabels: labels,
			},
			[]string{"channel_name"},
		),

		ChannelClosed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "channel",
				Name:        "closed",
				Help:        "1 once the channel has been closed",
				ConstLabels: labels,
			},
			[]string{"channel_name"},
		),

		ChannelWaitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "channel",
				Name:        "wait_duration_seconds",
				Help:        "Time spent inside blocking send and receive calls",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"channel_name", "operation"},
		),

		// Wait Group Metrics
		WaitGroupTasksStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "waitgroup",
				Name:        "tasks_started_total",
				Help:        "Total number of tasks launched by the wait group",
				ConstLabels: labels,
			},
			[]string{"group_name"},
		),

		WaitGroupTasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "waitgroup",
				Name:        "tasks_completed_total",
				Help:        "Total number of launched tasks that returned",
				ConstLabels: labels,
			},
			[]string{"group_name"},
		),

		WaitGroupTasksPanicked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "waitgroup",
				Name:        "tasks_panicked_total",
				Help:        "Total number of launched tasks that panicked",
				ConstLabels: labels,
			},
			[]string{"group_name"},
		),

		WaitGroupOutstanding: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "waitgroup",
				Name:        "outstanding",
				Help:        "Number of tasks not yet marked done",
				ConstLabels: labels,
			},
			[]string{"group_name"},
		),

		WaitGroupTaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "waitgroup",
				Name:        "task_duration_seconds",
				Help:        "Time spent executing launched tasks",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"group_name"},
		),

		// Worker Pool Metrics
		TasksExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "tasks_executed_total",
				Help:        "Total number of tasks executed",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "tasks_completed_total",
				Help:        "Total number of tasks completed successfully",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "tasks_failed_total",
				Help:        "Total number of tasks that failed",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "task_duration_seconds",
				Help:        "Time spent executing tasks",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "size",
				Help:        "Current worker pool size",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "active_workers",
				Help:        "Number of active workers",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "queued_tasks",
				Help:        "Number of queued tasks",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		// Shared Instance Metrics
		SharedInstances: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "shared",
				Name:        "instances",
				Help:        "Number of live shared instances",
				ConstLabels: labels,
			},
			[]string{"registry_name"},
		),

		SharedConstructions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "shared",
				Name:        "constructions_total",
				Help:        "Total number of shared instance constructions",
				ConstLabels: labels,
			},
			[]string{"registry_name", "type"},
		),

		SharedEvictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "shared",
				Name:        "evictions_total",
				Help:        "Total number of non-permanent instances evicted after their last release",
				ConstLabels: labels,
			},
			[]string{"registry_name", "type"},
		),
	}
}
