package k8s

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// ErrNoContexts is returned when the merged kubeconfig defines no contexts.
var ErrNoContexts = errors.New("kubeconfig defines no contexts")

// KubeConfig is the merged, read-only view of the kubeconfig files the
// shell was started with.
type KubeConfig struct {
	paths []string
	raw   clientcmdapi.Config
}

// KubeconfigPaths returns the kubeconfig files to load. A non-empty
// KUBECONFIG value is split with the platform list separator; otherwise the
// single file <configDir>/config is used.
func KubeconfigPaths(configDir string) []string {
	if env := os.Getenv(KubeconfigEnv); env != "" {
		var paths []string
		for _, p := range filepath.SplitList(env) {
			if p == "" {
				continue
			}
			paths = append(paths, expandHome(p))
		}
		if len(paths) > 0 {
			return paths
		}
	}
	return []string{filepath.Join(configDir, DefaultKubeconfigFile)}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// LoadKubeConfig merges the given kubeconfig files using client-go's
// precedence rules. Missing files are an error only if none can be read.
func LoadKubeConfig(paths []string) (*KubeConfig, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no kubeconfig paths given")
	}

	var found bool
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("no kubeconfig found at %s", strings.Join(paths, string(filepath.ListSeparator)))
	}

	rules := &clientcmd.ClientConfigLoadingRules{Precedence: paths}
	raw, err := rules.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	if len(raw.Contexts) == 0 {
		return nil, ErrNoContexts
	}

	return &KubeConfig{paths: paths, raw: *raw}, nil
}

// NewKubeConfig wraps an already loaded kubeconfig.
func NewKubeConfig(raw clientcmdapi.Config) (*KubeConfig, error) {
	if len(raw.Contexts) == 0 {
		return nil, ErrNoContexts
	}
	return &KubeConfig{raw: raw}, nil
}

// Paths returns the files the configuration was merged from.
func (k *KubeConfig) Paths() []string {
	return k.paths
}

// Contexts returns all context names in lexical order.
func (k *KubeConfig) Contexts() []string {
	names := make([]string, 0, len(k.raw.Contexts))
	for name := range k.raw.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasContext reports whether a context of that name exists.
func (k *KubeConfig) HasContext(name string) bool {
	_, ok := k.raw.Contexts[name]
	return ok
}

// CurrentContext returns the kubeconfig's current-context, or the first
// context alphabetically when it is unset or dangling.
func (k *KubeConfig) CurrentContext() string {
	if k.HasContext(k.raw.CurrentContext) {
		return k.raw.CurrentContext
	}
	return k.Contexts()[0]
}

// ContextNamespace returns the namespace a context defaults to.
func (k *KubeConfig) ContextNamespace(name string) string {
	if c, ok := k.raw.Contexts[name]; ok && c.Namespace != "" {
		return c.Namespace
	}
	return DefaultNamespace
}

// Server returns the API server URL of the context's cluster, or "".
func (k *KubeConfig) Server(name string) string {
	c, ok := k.raw.Contexts[name]
	if !ok {
		return ""
	}
	if cluster, ok := k.raw.Clusters[c.Cluster]; ok {
		return cluster.Server
	}
	return ""
}

// RESTConfig builds a REST config for the named context.
func (k *KubeConfig) RESTConfig(name string) (*rest.Config, error) {
	if !k.HasContext(name) {
		return nil, fmt.Errorf("context %q does not exist in kubeconfig", name)
	}
	cc := clientcmd.NewNonInteractiveClientConfig(k.raw, name, &clientcmd.ConfigOverrides{}, nil)
	restConfig, err := cc.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create rest config for context %q: %w", name, err)
	}
	return restConfig, nil
}
