package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"stackctl/internal/config"
	"stackctl/internal/health"
	"stackctl/internal/stack"
	"stackctl/pkg/logging"
)

// rolloutTimeout bounds how long Deploy waits for a Deployment to report an
// available replica after apply. The health probe has its own, separate
// timeout; this one only covers the cluster scheduling the pod at all.
const rolloutTimeout = 2 * time.Minute

// KubernetesDriver realizes components as manifests applied to a cluster.
// Apply goes through kubectl so manifests may contain any resource kind;
// rollout readiness is then verified through client-go against the
// component's Deployment.
type KubernetesDriver struct {
	probeStatus

	settings config.KubernetesSettings

	clientOnce sync.Once
	clientset  kubernetes.Interface
	clientErr  error
}

// NewKubernetesDriver creates the kubernetes backend driver.
func NewKubernetesDriver(settings config.KubernetesSettings, prober *health.Prober) (*KubernetesDriver, error) {
	if settings.Namespace == "" {
		settings.Namespace = "default"
	}
	if settings.ManifestDir == "" {
		settings.ManifestDir = "manifests"
	}
	return &KubernetesDriver{
		probeStatus: probeStatus{prober: prober},
		settings:    settings,
	}, nil
}

func (d *KubernetesDriver) Name() string { return "kubernetes" }

// client builds the clientset lazily so that stacks without kubernetes
// components never require a reachable cluster.
func (d *KubernetesDriver) client() (kubernetes.Interface, error) {
	d.clientOnce.Do(func() {
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		if d.settings.Kubeconfig != "" {
			loadingRules.ExplicitPath = d.settings.Kubeconfig
		}
		configOverrides := &clientcmd.ConfigOverrides{CurrentContext: d.settings.Context}
		kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)

		restConfig, err := kubeConfig.ClientConfig()
		if err != nil {
			d.clientErr = fmt.Errorf("failed to get REST config: %w", err)
			return
		}
		restConfig.Timeout = 30 * time.Second

		d.clientset, d.clientErr = kubernetes.NewForConfig(restConfig)
	})
	return d.clientset, d.clientErr
}

// manifestPath resolves the manifest file for a component.
func (d *KubernetesDriver) manifestPath(c stack.Component) string {
	if c.Definition.Manifest != "" {
		return c.Definition.Manifest
	}
	return filepath.Join(d.settings.ManifestDir, c.Name+".yaml")
}

func (d *KubernetesDriver) namespaceFor(c stack.Component) string {
	if c.Definition.Namespace != "" {
		return c.Definition.Namespace
	}
	return d.settings.Namespace
}

func (d *KubernetesDriver) kubectlArgs(c stack.Component, args ...string) []string {
	base := []string{"--namespace", d.namespaceFor(c)}
	if d.settings.Context != "" {
		base = append(base, "--context", d.settings.Context)
	}
	if d.settings.Kubeconfig != "" {
		base = append(base, "--kubeconfig", d.settings.Kubeconfig)
	}
	return append(base, args...)
}

// Deploy applies the component's manifest and waits for its Deployment to
// report an available replica.
func (d *KubernetesDriver) Deploy(ctx context.Context, c stack.Component) error {
	manifest := d.manifestPath(c)
	logging.Info("KubernetesDriver", "Applying manifest %s for component %s", manifest, c.Name)

	_, stderr, err := runCommand(ctx, "", nil, "kubectl", d.kubectlArgs(c, "apply", "-f", manifest)...)
	if err != nil {
		return &DeployError{Component: c.Name, Backend: d.Name(), Output: stderr, Err: err}
	}

	if err := d.waitForRollout(ctx, c); err != nil {
		return &DeployError{Component: c.Name, Backend: d.Name(), Err: err}
	}
	return nil
}

// waitForRollout polls the Deployment named after the component until it has
// at least one available replica.
func (d *KubernetesDriver) waitForRollout(ctx context.Context, c stack.Component) error {
	clientset, err := d.client()
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, rolloutTimeout)
	defer cancel()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	namespace := d.namespaceFor(c)
	for {
		deployment, err := clientset.AppsV1().Deployments(namespace).Get(waitCtx, c.Name, metav1.GetOptions{})
		if err == nil && deployment.Status.AvailableReplicas > 0 {
			logging.Debug("KubernetesDriver", "Deployment %s/%s has %d available replica(s)", namespace, c.Name, deployment.Status.AvailableReplicas)
			return nil
		}
		if err != nil {
			logging.Debug("KubernetesDriver", "Deployment %s/%s not ready yet: %v", namespace, c.Name, err)
		}

		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("deployment %s/%s never became available within %s", namespace, c.Name, rolloutTimeout)
		}
	}
}

// Stop deletes the component's manifest resources. Missing resources are not
// an error: stop must be idempotent from the operator's point of view.
func (d *KubernetesDriver) Stop(ctx context.Context, c stack.Component) error {
	manifest := d.manifestPath(c)
	logging.Info("KubernetesDriver", "Deleting manifest %s for component %s", manifest, c.Name)

	_, stderr, err := runCommand(ctx, "", nil, "kubectl", d.kubectlArgs(c, "delete", "--ignore-not-found", "-f", manifest)...)
	if err != nil {
		return &StopError{Component: c.Name, Backend: d.Name(), Output: stderr, Err: err}
	}
	return nil
}

// Logs tails the component's pod logs by deployment selector.
func (d *KubernetesDriver) Logs(ctx context.Context, c stack.Component, follow bool) error {
	args := d.kubectlArgs(c, "logs", "deployment/"+c.Name)
	if follow {
		args = append(args, "-f")
	}
	return streamCommand(ctx, "", "kubectl", args...)
}
