package k8s

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/logging"
)

// ClientFactory creates a Kubernetes client for a kubeconfig context.
type ClientFactory interface {
	NewClient(context string) (kubernetes.Interface, error)
}

// ClientFactoryFunc adapts a function to the ClientFactory interface.
type ClientFactoryFunc func(context string) (kubernetes.Interface, error)

// NewClient calls f(context).
func (f ClientFactoryFunc) NewClient(context string) (kubernetes.Interface, error) {
	return f(context)
}

// RESTClientFactory builds clientsets from a KubeConfig.
type RESTClientFactory struct {
	Config *KubeConfig

	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration

	Logger *slog.Logger
}

// NewRESTClientFactory returns a factory with default performance settings.
func NewRESTClientFactory(cfg *KubeConfig, logger *slog.Logger) *RESTClientFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &RESTClientFactory{
		Config:     cfg,
		QPSLimit:   DefaultQPSLimit,
		BurstLimit: DefaultBurstLimit,
		Timeout:    DefaultTimeout,
		Logger:     logger,
	}
}

// NewClient implements ClientFactory.
func (f *RESTClientFactory) NewClient(context string) (kubernetes.Interface, error) {
	restConfig, err := f.Config.RESTConfig(context)
	if err != nil {
		return nil, err
	}

	restConfig.QPS = f.QPSLimit
	restConfig.Burst = f.BurstLimit
	restConfig.Timeout = f.Timeout

	f.Logger.Debug("creating clientset",
		logging.Context(context),
		logging.Host(restConfig.Host))

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset for context %q: %w", context, err)
	}
	return clientset, nil
}

// ClientCache hands out one client per context, creating it on first use.
// Cached clients keep their transport so credentials are not re-negotiated.
type ClientCache struct {
	factory ClientFactory

	mu      sync.Mutex
	entries map[string]*clientEntry
}

// NewClientCache returns an empty cache backed by factory.
func NewClientCache(factory ClientFactory) *ClientCache {
	return &ClientCache{
		factory: factory,
		entries: make(map[string]*clientEntry),
	}
}

// Get returns the cached client for context, creating it if needed.
// A failed creation is retried on the next call.
func (c *ClientCache) Get(context string) (kubernetes.Interface, error) {
	c.mu.Lock()
	entry, ok := c.entries[context]
	if !ok {
		entry = &clientEntry{context: context}
		c.entries[context] = entry
	}
	c.mu.Unlock()

	return entry.get(c.factory)
}

// Cached reports whether a client for context has been created.
func (c *ClientCache) Cached(context string) bool {
	c.mu.Lock()
	entry, ok := c.entries[context]
	c.mu.Unlock()
	return ok && entry.ready()
}
