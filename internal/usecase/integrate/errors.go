// Where: cli/internal/usecase/integrate/errors.go
// What: Error taxonomy for integration runs.
// Why: Let the CLI map failures to exit codes with errors.Is/As.
package integrate

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPayload means the upstream payload build has not been run.
	ErrMissingPayload = errors.New("corresponding payload binary not found, please build payload first")
	// ErrSubprocessFailed is matched by every StepError.
	ErrSubprocessFailed = errors.New("subprocess failed")

	errRunnerNotConfigured    = errors.New("command runner is not configured")
	errToolchainNotConfigured = errors.New("toolchain resolver is not configured")
	errPublishNotConfigured   = errors.New("publishing is not configured")
)

// Step names used in StepError.
const (
	StepTranslate = "config translation"
	StepBuild     = "building Slim Bootloader"
	StepStitch    = "stitching"
)

// StepError reports a subprocess that exited unsuccessfully.
type StepError struct {
	Step     string
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s failed (exit code %d)", e.Step, e.ExitCode)
}

func (e *StepError) Unwrap() []error {
	return []error{ErrSubprocessFailed, e.Err}
}
