// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, invalid input, or an unknown task.
	UserError = 1

	// AuthError indicates missing credentials or invalid configuration.
	AuthError = 2

	// BackendError indicates a store, network, or timeout failure.
	BackendError = 3
)
