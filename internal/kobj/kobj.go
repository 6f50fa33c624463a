// Package kobj defines the uniform identity of a cluster object and the
// process-wide registry of the resource kinds the shell knows about.
package kobj

import (
	"fmt"
)

// Kind identifies a category of cluster object.
type Kind int

const (
	KindUnknown Kind = iota
	KindPod
	KindService
	KindNode
	KindNamespace
	KindPersistentVolume
	KindPersistentVolumeClaim
	KindDeployment
	KindConfigMap
	KindSecret
)

// String returns the singular, lower-case kind name.
func (k Kind) String() string {
	if info, ok := registry[k]; ok {
		return info.Name
	}
	return "unknown"
}

// Namespaced reports whether objects of this kind live inside a namespace.
func (k Kind) Namespaced() bool {
	if info, ok := registry[k]; ok {
		return info.Namespaced
	}
	return false
}

// Handle is the identity of a single cluster object, independent of its kind's schema.
// The identity key is (Kind, Namespace, Name). Handles are values and never mutated.
type Handle struct {
	Name      string
	Namespace string
	Kind      Kind
}

// New returns a handle for a namespaced object. Pass an empty namespace for
// cluster-scoped kinds.
func New(kind Kind, namespace, name string) Handle {
	if !kind.Namespaced() {
		namespace = ""
	}
	return Handle{Name: name, Namespace: namespace, Kind: kind}
}

// HasNamespace reports whether the handle carries a namespace.
func (h Handle) HasNamespace() bool {
	return h.Namespace != ""
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// String renders the handle as kind/namespace/name, omitting the namespace when absent.
func (h Handle) String() string {
	if h.Namespace == "" {
		return fmt.Sprintf("%s/%s", h.Kind, h.Name)
	}
	return fmt.Sprintf("%s/%s/%s", h.Kind, h.Namespace, h.Name)
}
