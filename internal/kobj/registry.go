package kobj

import (
	"context"
	"fmt"
	"sort"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes"
)

// GetFunc fetches a single object of a kind by namespace and name.
type GetFunc func(ctx context.Context, client kubernetes.Interface, namespace, name string) (runtime.Object, error)

// DeleteFunc removes a single object of a kind by namespace and name.
type DeleteFunc func(ctx context.Context, client kubernetes.Interface, namespace, name string, opts metav1.DeleteOptions) error

// KindInfo describes how the shell addresses one resource kind. Words is
// the kind name as lower-case words, e.g. "config map".
type KindInfo struct {
	Kind       Kind
	Name       string
	Plural     string
	Words      string
	Aliases    []string
	Namespaced bool
	GVK        schema.GroupVersionKind
	Get        GetFunc
	Delete     DeleteFunc
}

// registry is built once at package initialization and never mutated afterwards.
var registry = map[Kind]KindInfo{
	KindPod: {
		Kind: KindPod, Name: "pod", Plural: "pods", Words: "pod", Aliases: []string{"po"}, Namespaced: true,
		GVK: schema.GroupVersionKind{Version: "v1", Kind: "Pod"},
		Get: func(ctx context.Context, c kubernetes.Interface, ns, name string) (runtime.Object, error) {
			return c.CoreV1().Pods(ns).Get(ctx, name, metav1.GetOptions{})
		},
		Delete: func(ctx context.Context, c kubernetes.Interface, ns, name string, opts metav1.DeleteOptions) error {
			return c.CoreV1().Pods(ns).Delete(ctx, name, opts)
		},
	},
	KindService: {
		Kind: KindService, Name: "service", Plural: "services", Words: "service", Aliases: []string{"svc"}, Namespaced: true,
		GVK: schema.GroupVersionKind{Version: "v1", Kind: "Service"},
		Get: func(ctx context.Context, c kubernetes.Interface, ns, name string) (runtime.Object, error) {
			return c.CoreV1().Services(ns).Get(ctx, name, metav1.GetOptions{})
		},
		Delete: func(ctx context.Context, c kubernetes.Interface, ns, name string, opts metav1.DeleteOptions) error {
			return c.CoreV1().Services(ns).Delete(ctx, name, opts)
		},
	},
	KindNode: {
		Kind: KindNode, Name: "node", Plural: "nodes", Words: "node", Aliases: []string{"no"},
		GVK: schema.GroupVersionKind{Version: "v1", Kind: "Node"},
		Get: func(ctx context.Context, c kubernetes.Interface, _, name string) (runtime.Object, error) {
			return c.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
		},
		Delete: func(ctx context.Context, c kubernetes.Interface, _, name string, opts metav1.DeleteOptions) error {
			return c.CoreV1().Nodes().Delete(ctx, name, opts)
		},
	},
	KindNamespace: {
		Kind: KindNamespace, Name: "namespace", Plural: "namespaces", Words: "namespace", Aliases: []string{"ns"},
		GVK: schema.GroupVersionKind{Version: "v1", Kind: "Namespace"},
		Get: func(ctx context.Context, c kubernetes.Interface, _, name string) (runtime.Object, error) {
			return c.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
		},
		Delete: func(ctx context.Context, c kubernetes.Interface, _, name string, opts metav1.DeleteOptions) error {
			return c.CoreV1().Namespaces().Delete(ctx, name, opts)
		},
	},
	KindPersistentVolume: {
		Kind: KindPersistentVolume, Name: "persistentvolume", Plural: "persistentvolumes", Words: "persistent volume", Aliases: []string{"pv"},
		GVK: schema.GroupVersionKind{Version: "v1", Kind: "PersistentVolume"},
		Get: func(ctx context.Context, c kubernetes.Interface, _, name string) (runtime.Object, error) {
			return c.CoreV1().PersistentVolumes().Get(ctx, name, metav1.GetOptions{})
		},
		Delete: func(ctx context.Context, c kubernetes.Interface, _, name string, opts metav1.DeleteOptions) error {
			return c.CoreV1().PersistentVolumes().Delete(ctx, name, opts)
		},
	},
	KindPersistentVolumeClaim: {
		Kind: KindPersistentVolumeClaim, Name: "persistentvolumeclaim", Plural: "persistentvolumeclaims", Words: "persistent volume claim", Aliases: []string{"pvc"}, Namespaced: true,
		GVK: schema.GroupVersionKind{Version: "v1", Kind: "PersistentVolumeClaim"},
		Get: func(ctx context.Context, c kubernetes.Interface, ns, name string) (runtime.Object, error) {
			return c.CoreV1().PersistentVolumeClaims(ns).Get(ctx, name, metav1.GetOptions{})
		},
		Delete: func(ctx context.Context, c kubernetes.Interface, ns, name string, opts metav1.DeleteOptions) error {
			return c.CoreV1().PersistentVolumeClaims(ns).Delete(ctx, name, opts)
		},
	},
	KindDeployment: {
		Kind: KindDeployment, Name: "deployment", Plural: "deployments", Words: "deployment", Aliases: []string{"deploy"}, Namespaced: true,
		GVK: schema.GroupVersionKind{Group: "apps", Version: "v1", Kind: "Deployment"},
		Get: func(ctx context.Context, c kubernetes.Interface, ns, name string) (runtime.Object, error) {
			return c.AppsV1().Deployments(ns).Get(ctx, name, metav1.GetOptions{})
		},
		Delete: func(ctx context.Context, c kubernetes.Interface, ns, name string, opts metav1.DeleteOptions) error {
			return c.AppsV1().Deployments(ns).Delete(ctx, name, opts)
		},
	},
	KindConfigMap: {
		Kind: KindConfigMap, Name: "configmap", Plural: "configmaps", Words: "config map", Aliases: []string{"cm"}, Namespaced: true,
		GVK: schema.GroupVersionKind{Version: "v1", Kind: "ConfigMap"},
		Get: func(ctx context.Context, c kubernetes.Interface, ns, name string) (runtime.Object, error) {
			return c.CoreV1().ConfigMaps(ns).Get(ctx, name, metav1.GetOptions{})
		},
		Delete: func(ctx context.Context, c kubernetes.Interface, ns, name string, opts metav1.DeleteOptions) error {
			return c.CoreV1().ConfigMaps(ns).Delete(ctx, name, opts)
		},
	},
	KindSecret: {
		Kind: KindSecret, Name: "secret", Plural: "secrets", Words: "secret", Namespaced: true,
		GVK: schema.GroupVersionKind{Version: "v1", Kind: "Secret"},
		Get: func(ctx context.Context, c kubernetes.Interface, ns, name string) (runtime.Object, error) {
			return c.CoreV1().Secrets(ns).Get(ctx, name, metav1.GetOptions{})
		},
		Delete: func(ctx context.Context, c kubernetes.Interface, ns, name string, opts metav1.DeleteOptions) error {
			return c.CoreV1().Secrets(ns).Delete(ctx, name, opts)
		},
	},
}

// Info returns the registry entry for a kind.
func Info(k Kind) (KindInfo, bool) {
	info, ok := registry[k]
	return info, ok
}

// Lookup resolves a kind from its singular name, plural name or short alias.
func Lookup(name string) (Kind, bool) {
	for k, info := range registry {
		if info.Name == name || info.Plural == name {
			return k, true
		}
		for _, alias := range info.Aliases {
			if alias == name {
				return k, true
			}
		}
	}
	return KindUnknown, false
}

// Kinds returns every registered kind ordered by name.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return registry[kinds[i]].Name < registry[kinds[j]].Name
	})
	return kinds
}

// Get fetches the object a handle refers to and stamps its type information,
// which typed clients leave empty.
func Get(ctx context.Context, client kubernetes.Interface, h Handle) (runtime.Object, error) {
	info, ok := registry[h.Kind]
	if !ok {
		return nil, fmt.Errorf("unsupported kind %q", h.Kind)
	}
	obj, err := info.Get(ctx, client, h.Namespace, h.Name)
	if err != nil {
		return nil, err
	}
	obj.GetObjectKind().SetGroupVersionKind(info.GVK)
	return obj, nil
}

// Delete removes the object a handle refers to.
func Delete(ctx context.Context, client kubernetes.Interface, h Handle, opts metav1.DeleteOptions) error {
	info, ok := registry[h.Kind]
	if !ok {
		return fmt.Errorf("unsupported kind %q", h.Kind)
	}
	return info.Delete(ctx, client, h.Namespace, h.Name, opts)
}
