// Package sim provides the discrete-event simulation kernel for the port
// terminal model.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - simulator.go: the event loop, RunUntil and shutdown
//   - process.go: Process lifecycle (not started → running → suspended → terminated)
//   - resource.go, container.go, store.go: the three kinds of shared pool a
//     process can block on
//
// # Execution Model
//
// Every process body runs on its own goroutine, but the scheduler resumes
// exactly one at a time and waits for it to suspend again. Suspension points
// are Timeout, Resource.Acquire, Container.Get/Put, FilterStore.Get and Join.
// Each registers a wake event before yielding, and the EventQueue orders wake
// events by (timestamp, event ID) so a run is a pure function of its inputs.
//
// # Architecture
//
// Domain code lives in sub-packages:
//   - sim/dist/: sampling distributions over an explicit *rand.Rand
//   - sim/scenario/: scenario configuration, presets and overrides
//   - sim/port/: terminal entity processes and RunSimulation
//   - sim/metrics/: output tables, derived columns and KPI summaries
//   - sim/trace/: decision records
package sim
