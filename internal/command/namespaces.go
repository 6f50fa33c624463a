package command

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

var namespacesCommand = resourceCommand[corev1.Namespace]{
	Kind:    kobj.KindNamespace,
	Name:    "namespaces",
	About:   "List namespaces in the current context",
	Headers: []string{"Name", "Status", "Age"},
	Extractors: map[string]table.Extractor[corev1.Namespace]{
		"Status": func(ns *corev1.Namespace) (table.Cell, bool) {
			if ns.Status.Phase == "" {
				return table.Cell{}, false
			}
			return table.Text(string(ns.Status.Phase)), true
		},
	},
	List: func(ctx context.Context, c kubernetes.Interface, _ string, opts metav1.ListOptions) ([]corev1.Namespace, error) {
		list, err := c.CoreV1().Namespaces().List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	},
}.command()
