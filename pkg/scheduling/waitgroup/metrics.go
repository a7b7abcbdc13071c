package waitgroup

import (
	"time"

	"github.com/vnykmshr/conduit/pkg/metrics"
)

// NewWithMetrics creates a WaitGroup whose launched tasks are recorded in
// Prometheus under the given group name.
func NewWithMetrics(name string, metricsConfig metrics.Config) *WaitGroup {
	return NewWithConfigAndMetrics(Config{Name: name}, metricsConfig)
}

// NewWithConfigAndMetrics creates a WaitGroup with custom config and metrics.
// Hooks already present in config still run, after the metrics are recorded.
func NewWithConfigAndMetrics(config Config, metricsConfig metrics.Config) *WaitGroup {
	wg := NewWithConfig(config)
	if !metricsConfig.Enabled {
		return wg
	}

	registry := metrics.RegistryFor(metricsConfig)
	name := config.Name
	onStart, onDone := config.OnTaskStart, config.OnTaskDone

	wg.config.OnTaskStart = func(id uint64) {
		registry.WaitGroupTasksStarted.WithLabelValues(name).Inc()
		registry.WaitGroupOutstanding.WithLabelValues(name).Set(float64(wg.Count()))
		if onStart != nil {
			onStart(id)
		}
	}

	wg.config.OnTaskDone = func(id uint64, duration time.Duration, err error) {
		registry.WaitGroupTaskDuration.WithLabelValues(name).Observe(duration.Seconds())
		if err != nil {
			registry.WaitGroupTasksPanicked.WithLabelValues(name).Inc()
		} else {
			registry.WaitGroupTasksCompleted.WithLabelValues(name).Inc()
		}
		// This task's Done has not run yet.
		registry.WaitGroupOutstanding.WithLabelValues(name).Set(float64(wg.Count() - 1))
		if onDone != nil {
			onDone(id, duration, err)
		}
	}

	return wg
}
