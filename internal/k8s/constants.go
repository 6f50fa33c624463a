package k8s

import "time"

const (
	// Default performance settings applied to every REST config.
	DefaultQPSLimit   = 20.0
	DefaultBurstLimit = 30
	DefaultTimeout    = 30 * time.Second

	// DefaultNamespace is used when a context does not name one.
	DefaultNamespace = "default"

	// KubeconfigEnv names the environment variable holding a list of kubeconfig paths.
	KubeconfigEnv = "KUBECONFIG"

	// DefaultKubeconfigFile is the kubeconfig file name inside the config directory.
	DefaultKubeconfigFile = "config"
)
