// Package actions provides concrete feature actions built on the
// pkg/action framework: power-status queries, routing changes and
// remote-control key passthrough.
//
// Each action is created with the owning service's environment, then
// handed to the service for registration and start. Completion is
// reported through the per-action callback, which runs on the
// service's loop; callbacks must not block.
package actions
