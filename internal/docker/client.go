package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"
	specs "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/omarbz2001/MA-PCM/internal/trial"
)

// dataMountPoint is where the host directory holding the TSP instance is
// mounted inside the solver container.
const dataMountPoint = "/data"

// APIClient defines the subset of Docker API methods we use.
// This allows for mocking in tests.
type APIClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	Close() error
}

// Client wraps the official Docker client to provide high-level solver
// execution methods.
type Client struct {
	api APIClient
}

// NewClient creates a new Docker client instance.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Client{api: cli}, nil
}

// Close closes the underlying docker client connection.
func (c *Client) Close() error {
	return c.api.Close()
}

// CheckDaemon verifies that the Docker daemon is running and reachable.
func (c *Client) CheckDaemon(ctx context.Context) error {
	_, err := c.api.Ping(ctx)
	if err != nil {
		return fmt.Errorf("docker daemon is not reachable: %w", err)
	}
	return nil
}

// CheckImage verifies that the solver image exists locally.
// Returns true if the image exists, false otherwise.
func (c *Client) CheckImage(ctx context.Context, imageRef string) (bool, error) {
	images, err := c.api.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to list images: %w", err)
	}

	// Normalize image reference: if no tag specified, assume :latest
	normalizedRef := imageRef
	if !strings.Contains(imageRef, ":") {
		normalizedRef = imageRef + ":latest"
	}

	// Check if the image exists by comparing repository tags
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageRef || tag == normalizedRef {
				return true, nil
			}
		}
		// Check by image ID (short or full)
		if len(img.ID) >= 12 && len(imageRef) >= 12 && imageRef == img.ID[:12] {
			return true, nil
		}
		if imageRef == img.ID {
			return true, nil
		}
	}

	return false, nil
}

// PullImage pulls the solver image from the registry.
// It returns an error if the pull fails.
func (c *Client) PullImage(ctx context.Context, imageRef string) error {
	reader, err := c.api.ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", imageRef, err)
	}
	defer reader.Close()

	// Parse pull output to check for errors
	decoder := json.NewDecoder(reader)
	for {
		var msg jsonmessage.JSONMessage
		if err := decoder.Decode(&msg); err != nil {
			if err == io.EOF {
				break
			}
			// Continue parsing even if one message fails
			continue
		}

		if msg.Error != nil {
			return fmt.Errorf("pull failed: %s", msg.Error.Message)
		}
	}

	return nil
}

// EnsureImage makes sure the solver image is available locally, pulling it
// from the registry when it is missing.
func (c *Client) EnsureImage(ctx context.Context, imageRef string) error {
	exists, err := c.CheckImage(ctx, imageRef)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	slog.Info("solver image not found locally, pulling", "image", imageRef)
	return c.PullImage(ctx, imageRef)
}

// RunSolver executes a single solver trial in a one-shot container and
// returns its captured output. The directory holding the TSP file is
// bind-mounted read-only at /data so the containerized solver reads the
// same instance the host sees. A non-zero exit status is not an error:
// the caller decides success by extracting a time from the output.
func (c *Client) RunSolver(ctx context.Context, imageRef, solverPath string, req trial.Request) (trial.Output, error) {
	hostDir, err := filepath.Abs(filepath.Dir(req.TSPFile))
	if err != nil {
		return trial.Output{}, fmt.Errorf("failed to resolve directory of %s: %w", req.TSPFile, err)
	}

	// Rewrite the TSP file path to its location under the mount point.
	containerReq := req
	containerReq.TSPFile = path.Join(dataMountPoint, filepath.Base(req.TSPFile))

	resp, err := c.api.ContainerCreate(ctx,
		&container.Config{
			Image:      imageRef,
			Cmd:        append([]string{solverPath}, containerReq.Args()...),
			WorkingDir: dataMountPoint,
		},
		&container.HostConfig{
			Binds: []string{
				fmt.Sprintf("%s:%s:ro", hostDir, dataMountPoint),
			},
		}, nil, nil, "")
	if err != nil {
		return trial.Output{}, fmt.Errorf("failed to create container: %w", err)
	}
	containerID := resp.ID
	defer func() {
		if err := c.api.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
			slog.Warn("failed to remove solver container", "container_id", containerID, "error", err)
		}
	}()

	if err := c.api.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return trial.Output{}, fmt.Errorf("failed to start container: %w", err)
	}

	statusCh, errCh := c.api.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return trial.Output{}, fmt.Errorf("failed waiting for container: %w", err)
		}
	case status := <-statusCh:
		if status.StatusCode != 0 {
			slog.Debug("solver container exited non-zero",
				"container_id", containerID,
				"status_code", status.StatusCode,
				"threads", req.Threads)
		}
	}

	logs, err := c.api.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return trial.Output{}, fmt.Errorf("failed to read container logs: %w", err)
	}
	defer logs.Close()

	var outBuf, errBuf bytes.Buffer
	// stdcopy.StdCopy demultiplexes the stream when the container runs
	// without a TTY, which is the case here.
	if _, err := stdcopy.StdCopy(&outBuf, &errBuf, logs); err != nil {
		return trial.Output{}, fmt.Errorf("failed to copy container output: %w", err)
	}

	return trial.Output{Stdout: outBuf.String(), Stderr: errBuf.String()}, nil
}
