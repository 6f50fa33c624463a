package command

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

var claimExtractors = map[string]table.Extractor[corev1.PersistentVolumeClaim]{
	"Status": func(pvc *corev1.PersistentVolumeClaim) (table.Cell, bool) {
		if pvc.Status.Phase == "" {
			return table.Cell{}, false
		}
		return table.Text(string(pvc.Status.Phase)), true
	},
	"Volume": func(pvc *corev1.PersistentVolumeClaim) (table.Cell, bool) {
		if pvc.Spec.VolumeName == "" {
			return table.Cell{}, false
		}
		return table.Text(pvc.Spec.VolumeName), true
	},
	"Capacity": func(pvc *corev1.PersistentVolumeClaim) (table.Cell, bool) {
		q, ok := pvc.Status.Capacity[corev1.ResourceStorage]
		if !ok {
			return table.Cell{}, false
		}
		return table.Quantity(q), true
	},
	"Access Modes": func(pvc *corev1.PersistentVolumeClaim) (table.Cell, bool) {
		return table.Text(accessModes(pvc.Status.AccessModes)), true
	},
	"Storage Class": func(pvc *corev1.PersistentVolumeClaim) (table.Cell, bool) {
		if pvc.Spec.StorageClassName == nil {
			return table.Cell{}, false
		}
		return table.Text(*pvc.Spec.StorageClassName), true
	},
}

var persistentVolumeClaimsCommand = resourceCommand[corev1.PersistentVolumeClaim]{
	Kind:       kobj.KindPersistentVolumeClaim,
	Name:       "persistentvolumeclaims",
	Aliases:    []string{"pvcs", "pvc"},
	About:      "List persistent volume claims in the current namespace",
	Headers:    []string{"Name", "Status", "Volume", "Capacity", "Access Modes", "Storage Class", "Age"},
	Extractors: claimExtractors,
	List: func(ctx context.Context, c kubernetes.Interface, ns string, opts metav1.ListOptions) ([]corev1.PersistentVolumeClaim, error) {
		list, err := c.CoreV1().PersistentVolumeClaims(ns).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	},
}.command()
