// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. The only third-party packages they use
// are the ants worker pool (parallel chunk embedding) and the validator
// (configuration checks).
package services
