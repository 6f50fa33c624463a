package command

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

var configMapsCommand = resourceCommand[corev1.ConfigMap]{
	Kind:    kobj.KindConfigMap,
	Name:    "configmaps",
	Aliases: []string{"configmap", "cm"},
	About:   "List config maps in the current namespace",
	Headers: []string{"Name", "Data", "Age"},
	Extractors: map[string]table.Extractor[corev1.ConfigMap]{
		"Data": func(cm *corev1.ConfigMap) (table.Cell, bool) {
			return table.Int(int64(len(cm.Data) + len(cm.BinaryData))), true
		},
	},
	List: func(ctx context.Context, c kubernetes.Interface, ns string, opts metav1.ListOptions) ([]corev1.ConfigMap, error) {
		list, err := c.CoreV1().ConfigMaps(ns).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	},
}.command()

var secretsCommand = resourceCommand[corev1.Secret]{
	Kind:    kobj.KindSecret,
	Name:    "secrets",
	Aliases: []string{"secret"},
	About:   "List secrets in the current namespace",
	Headers: []string{"Name", "Type", "Data", "Age"},
	Extractors: map[string]table.Extractor[corev1.Secret]{
		"Type": func(s *corev1.Secret) (table.Cell, bool) {
			return table.Text(string(s.Type)), s.Type != ""
		},
		"Data": func(s *corev1.Secret) (table.Cell, bool) {
			return table.Int(int64(len(s.Data))), true
		},
	},
	List: func(ctx context.Context, c kubernetes.Interface, ns string, opts metav1.ListOptions) ([]corev1.Secret, error) {
		list, err := c.CoreV1().Secrets(ns).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	},
}.command()
