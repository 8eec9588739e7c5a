package hardware

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner abstracts external probe commands so detection can be tested
// without the tools installed. A probe timeout is enforced through the context;
// a timed-out probe is indistinguishable from a missing tool.
type CommandRunner interface {
	// Run executes a command and returns its stdout
	Run(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports whether a binary is present on PATH
	LookPath(name string) (string, error)
}

// ExecRunner implements CommandRunner using os/exec
type ExecRunner struct{}

// NewExecRunner creates a runner backed by the host PATH
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command under the given context
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 -- probe commands and arguments are fixed by the detector
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", err
	}
	return stdout.String(), nil
}

// LookPath resolves a binary on PATH
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
