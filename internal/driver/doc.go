// Package driver contains the backend drivers that realize components on a
// deployment substrate: docker compose services, kubernetes manifests, or
// locally built processes.
//
// A driver call is treated as opaque by the orchestrator: it either succeeds,
// leaving the component reachable at its declared port and health path, or it
// fails with the backend's raw error text. Health is never derived from
// backend process state — Status probes the component's endpoint, so all
// backends share one readiness contract.
package driver
