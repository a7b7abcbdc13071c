// Package metrics provides Prometheus instrumentation for conduit components.
//
// # Quick Start
//
// Components that can be instrumented offer metrics-enabled constructors:
//
//	// Channel with metrics, on its own registry
//	ch, err := channel.NewWithMetrics[Job](64, "jobs")
//
//	// Wait group recording into the default registerer
//	wg := waitgroup.NewWithMetrics("indexers", metrics.DefaultConfig())
//
//	// Worker pool with metrics
//	pool := workerpool.NewWithMetrics(8, "uploads")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Pass a metrics.Config to record into a registry of your own:
//
//	reg := prometheus.NewRegistry()
//	config := metrics.Config{Enabled: true, Registry: reg, Namespace: "myapp"}
//
//	ch, err := channel.NewWithConfigAndMetrics[Job](channel.Config{Capacity: 64}, "jobs", config)
//
// Components configured with the same registerer and namespace share one
// Registry (see RegistryFor), so any number of them can be created.
//
// # Available Metrics
//
// Channels, labelled by channel_name:
//
//   - conduit_channel_sends_total{outcome}: sends by outcome (accepted, rejected, would_block, canceled)
//   - conduit_channel_receives_total{outcome}: receives by outcome (received, exhausted, would_block, canceled)
//   - conduit_channel_wait_duration_seconds{operation}: time blocking sends and receives spent waiting
//   - conduit_channel_buffer_usage, conduit_channel_capacity, conduit_channel_closed
//
// Wait groups, labelled by group_name:
//
//   - conduit_waitgroup_tasks_started_total, conduit_waitgroup_tasks_completed_total
//   - conduit_waitgroup_tasks_panicked_total
//   - conduit_waitgroup_outstanding
//   - conduit_waitgroup_task_duration_seconds
//
// Worker pools, labelled by pool_name:
//
//   - conduit_workerpool_tasks_executed_total, _completed_total, _failed_total
//   - conduit_workerpool_task_duration_seconds
//   - conduit_workerpool_size, _active_workers, _queued_tasks
//
// Shared instance registries, labelled by registry_name (and type for counters):
//
//   - conduit_shared_instances
//   - conduit_shared_constructions_total, conduit_shared_evictions_total
//
// # Runtime Control
//
// Components implementing Instrumentable can be switched at runtime:
//
//	ch.DisableMetrics()
//	ch.EnableMetrics(config)
//	enabled := ch.MetricsEnabled()
package metrics
