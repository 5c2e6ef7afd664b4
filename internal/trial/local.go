package trial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Invoker launches one solver run and returns its captured output.
// Implementations exist for the local host, Docker, and Kubernetes.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (Output, error)
}

var execCommandContext = exec.CommandContext

// LocalInvoker runs the solver binary directly on the host.
type LocalInvoker struct {
	SolverPath string
}

func NewLocalInvoker(solverPath string) *LocalInvoker {
	return &LocalInvoker{SolverPath: solverPath}
}

func (l *LocalInvoker) Invoke(ctx context.Context, req Request) (Output, error) {
	cmd := execCommandContext(ctx, l.SolverPath, req.Args()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		// A non-zero solver exit is not consulted; whether the run
		// succeeded is decided by time extraction on the output.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, nil
		}
		return out, fmt.Errorf("launching solver %s: %w", l.SolverPath, err)
	}
	return out, nil
}
