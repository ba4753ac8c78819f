// Package orchestrator drives one deployment run over the component stack.
//
// A run moves through a fixed sequence of phases:
//
//	Idle -> Planning -> Executing -> Probing -> Aggregating -> Done
//
// Planning asks the planner for an execution plan and fails fast on
// configuration errors, before any component is touched. Executing invokes
// the backend driver for each plan step: strictly in order with inter-step
// delays in sequential mode, fanned out concurrently in parallel mode.
// Probing verifies every successfully deployed component against its health
// endpoint within the global timeout. Aggregating folds the per-component
// outcome table into a single stack result.
//
// Failure policy differs by mode. Sequential mode treats a deploy failure or
// a failed probe as fatal to the remainder of the run, preserving dependency
// integrity: components past the abort point are never attempted and stay
// NotStarted. Parallel mode isolates failures; every component's deploy and
// probe is attempted regardless of sibling outcomes.
//
// The orchestrator exclusively owns the outcome table for the run's
// lifetime and keeps no state between invocations: status and stop re-derive
// everything from live endpoints and backend calls.
package orchestrator
