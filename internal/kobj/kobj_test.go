package kobj

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestNewDropsNamespaceForClusterScopedKinds(t *testing.T) {
	pod := New(KindPod, "web", "api-0")
	assert.True(t, pod.HasNamespace())
	assert.Equal(t, "pod/web/api-0", pod.String())

	node := New(KindNode, "web", "worker-1")
	assert.False(t, node.HasNamespace())
	assert.Equal(t, "node/worker-1", node.String())
}

func TestHandleIdentity(t *testing.T) {
	assert.True(t, Handle{}.IsZero())
	assert.False(t, New(KindPod, "a", "b").IsZero())

	assert.Equal(t, New(KindPod, "a", "b"), New(KindPod, "a", "b"))
	assert.NotEqual(t, New(KindPod, "a", "b"), New(KindService, "a", "b"))
	assert.NotEqual(t, New(KindPod, "a", "b"), New(KindPod, "c", "b"))
}

func TestLookup(t *testing.T) {
	tests := map[string]Kind{
		"pod":                    KindPod,
		"pods":                   KindPod,
		"po":                     KindPod,
		"svc":                    KindService,
		"pv":                     KindPersistentVolume,
		"persistentvolumeclaims": KindPersistentVolumeClaim,
		"deploy":                 KindDeployment,
		"secret":                 KindSecret,
	}
	for name, want := range tests {
		got, ok := Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := Lookup("widgets")
	assert.False(t, ok)
}

func TestKindsAreComplete(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 9)
	for i, k := range kinds {
		info, ok := Info(k)
		require.True(t, ok)
		assert.NotNil(t, info.Get, k.String())
		assert.NotNil(t, info.Delete, k.String())
		assert.NotEmpty(t, info.GVK.Kind, k.String())
		assert.Equal(t, info.Name, strings.ReplaceAll(info.Words, " ", ""), k.String())
		assert.Equal(t, strings.ToLower(info.Words), info.Words, k.String())
		if i > 0 {
			assert.Less(t, kinds[i-1].String(), k.String())
		}
	}
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.False(t, KindUnknown.Namespaced())
}

func TestGetStampsTypeInformation(t *testing.T) {
	client := fake.NewClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "settings", Namespace: "web"},
	})

	obj, err := Get(t.Context(), client, New(KindConfigMap, "web", "settings"))
	require.NoError(t, err)
	gvk := obj.GetObjectKind().GroupVersionKind()
	assert.Equal(t, "v1", gvk.Version)
	assert.Equal(t, "ConfigMap", gvk.Kind)

	_, err = Get(t.Context(), client, Handle{Name: "x"})
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	client := fake.NewClientset(&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "worker-1"}})
	h := New(KindNode, "", "worker-1")

	require.NoError(t, Delete(t.Context(), client, h, metav1.DeleteOptions{}))

	_, err := Get(t.Context(), client, h)
	assert.True(t, apierrors.IsNotFound(err))
}
