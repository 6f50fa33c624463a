package k8s

import (
	"sync"

	"k8s.io/client-go/kubernetes"
)

// clientEntry is the ClientCache slot for one kubeconfig context. The client
// is built on first use and kept; a failed build leaves the slot empty so
// the next command retries, e.g. after the user refreshed expired
// credentials.
type clientEntry struct {
	context string

	mu     sync.RWMutex
	client kubernetes.Interface
}

// get returns the context's client, building it with factory if needed.
// Concurrent callers share a single successful build.
func (e *clientEntry) get(factory ClientFactory) (kubernetes.Interface, error) {
	e.mu.RLock()
	client := e.client
	e.mu.RUnlock()
	if client != nil {
		return client, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return e.client, nil
	}
	client, err := factory.NewClient(e.context)
	if err != nil {
		return nil, err
	}
	e.client = client
	return client, nil
}

// ready reports whether the context's client has been built.
func (e *clientEntry) ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.client != nil
}
