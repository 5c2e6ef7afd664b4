package k8s

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/omarbz2001/MA-PCM/internal/trial"
)

// instanceMountPoint is where the ConfigMap holding the TSP instance is
// mounted inside the solver container.
const instanceMountPoint = "/data"

const defaultPollInterval = 2 * time.Second

// Invoker runs solver trials as one-shot Kubernetes Jobs. Each trial ships
// the TSP instance to the cluster as a ConfigMap, so the instance must fit
// the ConfigMap size limit of 1 MiB. It implements trial.Invoker.
type Invoker struct {
	client       *Client
	image        string
	solverPath   string
	pollInterval time.Duration
}

// NewInvoker builds a cluster-backed invoker and verifies the API server is
// reachable before the first trial runs.
func NewInvoker(imageRef, solverPath, namespace string) (*Invoker, error) {
	if imageRef == "" {
		return nil, fmt.Errorf("k8s runner requires a solver image")
	}

	client, err := NewClient(namespace)
	if err != nil {
		return nil, err
	}
	if err := client.CheckCluster(); err != nil {
		return nil, err
	}

	return &Invoker{
		client:       client,
		image:        imageRef,
		solverPath:   solverPath,
		pollInterval: defaultPollInterval,
	}, nil
}

// Invoke runs one solver trial as a Job and returns its pod logs. Pod logs
// interleave stdout and stderr, so everything lands in Output.Stdout.
func (i *Invoker) Invoke(ctx context.Context, req trial.Request) (trial.Output, error) {
	content, err := os.ReadFile(req.TSPFile)
	if err != nil {
		return trial.Output{}, fmt.Errorf("failed to read %s: %w", req.TSPFile, err)
	}

	instanceFile := filepath.Base(req.TSPFile)
	suffix := trialSuffix(req)

	cmName, err := i.createInstanceConfigMap(ctx, "tspbench-data-"+suffix, instanceFile, string(content))
	if err != nil {
		return trial.Output{}, err
	}
	defer i.deleteConfigMap(ctx, cmName)

	jobName, err := i.createJob(ctx, "tspbench-"+suffix, cmName, instanceFile, req)
	if err != nil {
		return trial.Output{}, err
	}
	defer i.deleteJob(ctx, jobName)

	if err := i.waitForJob(ctx, jobName); err != nil {
		return trial.Output{}, err
	}

	logs, err := i.readJobLogs(ctx, jobName)
	if err != nil {
		return trial.Output{}, err
	}

	return trial.Output{Stdout: logs}, nil
}

func (i *Invoker) createInstanceConfigMap(ctx context.Context, name, instanceFile, content string) (string, error) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: map[string]string{"app": "tspbench"},
		},
		Data: map[string]string{instanceFile: content},
	}

	created, err := i.client.Clientset.CoreV1().ConfigMaps(i.client.Namespace).Create(ctx, cm, metav1.CreateOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create instance configmap: %w", err)
	}
	return created.Name, nil
}

func (i *Invoker) createJob(ctx context.Context, name, configMapName, instanceFile string, req trial.Request) (string, error) {
	// Rewrite the TSP file path to its location under the mount point.
	containerReq := req
	containerReq.TSPFile = path.Join(instanceMountPoint, instanceFile)

	ttl := int32(3600)
	backoff := int32(0) // a failed solver run is not retried

	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: map[string]string{"app": "tspbench"},
		},
		Spec: batchv1.JobSpec{
			TTLSecondsAfterFinished: &ttl,
			BackoffLimit:            &backoff,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{"app": "tspbench"},
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{
						{
							Name:       "solver",
							Image:      i.image,
							Command:    append([]string{i.solverPath}, containerReq.Args()...),
							WorkingDir: instanceMountPoint,
							VolumeMounts: []corev1.VolumeMount{
								{Name: "instance", MountPath: instanceMountPoint, ReadOnly: true},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "instance",
							VolumeSource: corev1.VolumeSource{
								ConfigMap: &corev1.ConfigMapVolumeSource{
									LocalObjectReference: corev1.LocalObjectReference{Name: configMapName},
								},
							},
						},
					},
				},
			},
		},
	}

	created, err := i.client.Clientset.BatchV1().Jobs(i.client.Namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create solver job: %w", err)
	}

	slog.Debug("solver job created", "job", created.Name, "threads", req.Threads)
	return created.Name, nil
}

// waitForJob polls until the job finishes. A failed job is not an error
// here: its pod still produced logs, and the caller decides success by
// extracting a time from them. There is no deadline beyond ctx.
func (i *Invoker) waitForJob(ctx context.Context, name string) error {
	ticker := time.NewTicker(i.pollInterval)
	defer ticker.Stop()

	for {
		job, err := i.client.Clientset.BatchV1().Jobs(i.client.Namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return fmt.Errorf("failed to check job %s: %w", name, err)
		}
		if job.Status.Succeeded > 0 {
			return nil
		}
		if job.Status.Failed > 0 {
			slog.Debug("solver job exited non-zero", "job", name)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (i *Invoker) readJobLogs(ctx context.Context, jobName string) (string, error) {
	pods, err := i.client.ListPods(ctx, "job-name="+jobName)
	if err != nil {
		return "", err
	}
	if len(pods) == 0 {
		return "", fmt.Errorf("no pod found for job %s", jobName)
	}

	podName := pods[0].Name
	stream, err := i.client.Clientset.CoreV1().Pods(i.client.Namespace).GetLogs(podName, &corev1.PodLogOptions{}).Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to stream logs for pod %s: %w", podName, err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return "", fmt.Errorf("failed to read logs for pod %s: %w", podName, err)
	}
	return string(data), nil
}

func (i *Invoker) deleteJob(ctx context.Context, name string) {
	policy := metav1.DeletePropagationBackground
	err := i.client.Clientset.BatchV1().Jobs(i.client.Namespace).Delete(ctx, name, metav1.DeleteOptions{PropagationPolicy: &policy})
	if err != nil {
		slog.Warn("failed to delete solver job", "job", name, "error", err)
	}
}

func (i *Invoker) deleteConfigMap(ctx context.Context, name string) {
	err := i.client.Clientset.CoreV1().ConfigMaps(i.client.Namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		slog.Warn("failed to delete instance configmap", "configmap", name, "error", err)
	}
}

var nameSanitizerRegex = regexp.MustCompile("[^a-z0-9]+")

// sanitizeName lowercases a string and replaces anything a Kubernetes
// object name cannot carry with a dash.
func sanitizeName(name string) string {
	name = strings.ToLower(name)
	name = nameSanitizerRegex.ReplaceAllString(name, "-")
	return strings.Trim(name, "-")
}

// trialSuffix builds a unique per-trial name suffix from the instance,
// the thread count, and the wall clock.
func trialSuffix(req trial.Request) string {
	base := sanitizeName(strings.TrimSuffix(filepath.Base(req.TSPFile), filepath.Ext(req.TSPFile)))
	return fmt.Sprintf("%s-t%d-%d", base, req.Threads, time.Now().UnixNano())
}
