package docker

import (
	"context"
	"fmt"

	"github.com/omarbz2001/MA-PCM/internal/trial"
)

// Invoker runs solver trials inside one-shot Docker containers. It
// implements trial.Invoker.
type Invoker struct {
	client     *Client
	image      string
	solverPath string
}

// NewInvoker connects to the local Docker daemon and makes sure the solver
// image is available before the first trial runs.
func NewInvoker(ctx context.Context, imageRef, solverPath string) (*Invoker, error) {
	if imageRef == "" {
		return nil, fmt.Errorf("docker runner requires a solver image")
	}

	cli, err := NewClient()
	if err != nil {
		return nil, err
	}
	if err := cli.CheckDaemon(ctx); err != nil {
		cli.Close()
		return nil, err
	}
	if err := cli.EnsureImage(ctx, imageRef); err != nil {
		cli.Close()
		return nil, err
	}

	return &Invoker{client: cli, image: imageRef, solverPath: solverPath}, nil
}

// Invoke runs one solver trial in a fresh container.
func (i *Invoker) Invoke(ctx context.Context, req trial.Request) (trial.Output, error) {
	return i.client.RunSolver(ctx, i.image, i.solverPath, req)
}

// Close releases the underlying Docker connection.
func (i *Invoker) Close() error {
	return i.client.Close()
}
