package command

import (
	"context"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

var persistentVolumeExtractors = map[string]table.Extractor[corev1.PersistentVolume]{
	"Capacity":       volumeCapacity,
	"Access Modes":   volumeAccessModes,
	"Reclaim Policy": volumeReclaimPolicy,
	"Status":         volumeStatus,
	"Claim":          volumeClaim,
	"Storage Class":  volumeStorageClass,
	"Reason":         volumeReason,
}

var persistentVolumesCommand = resourceCommand[corev1.PersistentVolume]{
	Kind:    kobj.KindPersistentVolume,
	Name:    "persistentvolumes",
	Aliases: []string{"pvs", "pv"},
	About:   "Get persistent volumes in current context",
	Headers: []string{
		"Name", "Age", "Capacity", "Access Modes", "Reclaim Policy",
		"Status", "Claim", "Storage Class", "Reason",
	},
	Extractors: persistentVolumeExtractors,
	List: func(ctx context.Context, c kubernetes.Interface, _ string, opts metav1.ListOptions) ([]corev1.PersistentVolume, error) {
		list, err := c.CoreV1().PersistentVolumes().List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	},
}.command()

func volumeCapacity(pv *corev1.PersistentVolume) (table.Cell, bool) {
	q, ok := pv.Spec.Capacity[corev1.ResourceStorage]
	if !ok {
		return table.Cell{}, false
	}
	return table.Quantity(q), true
}

// accessModes abbreviates access modes the way kubectl does.
func accessModes(modes []corev1.PersistentVolumeAccessMode) string {
	short := make([]string, 0, len(modes))
	for _, m := range modes {
		switch m {
		case corev1.ReadWriteOnce:
			short = append(short, "RWO")
		case corev1.ReadOnlyMany:
			short = append(short, "ROX")
		case corev1.ReadWriteMany:
			short = append(short, "RWX")
		case corev1.ReadWriteOncePod:
			short = append(short, "RWOP")
		default:
			short = append(short, "Unknown")
		}
	}
	return strings.Join(short, ", ")
}

func volumeAccessModes(pv *corev1.PersistentVolume) (table.Cell, bool) {
	return table.Text(accessModes(pv.Spec.AccessModes)), true
}

func volumeReclaimPolicy(pv *corev1.PersistentVolume) (table.Cell, bool) {
	if pv.Spec.PersistentVolumeReclaimPolicy == "" {
		return table.Cell{}, false
	}
	return table.Text(string(pv.Spec.PersistentVolumeReclaimPolicy)), true
}

func volumeStatus(pv *corev1.PersistentVolume) (table.Cell, bool) {
	if pv.Status.Phase == "" {
		return table.Cell{}, false
	}
	return table.Text(string(pv.Status.Phase)), true
}

func volumeClaim(pv *corev1.PersistentVolume) (table.Cell, bool) {
	ref := pv.Spec.ClaimRef
	if ref == nil {
		return table.Text(""), true
	}
	return table.Text(ref.Namespace + "/" + ref.Name), true
}

func volumeStorageClass(pv *corev1.PersistentVolume) (table.Cell, bool) {
	if pv.Spec.StorageClassName == "" {
		return table.Cell{}, false
	}
	return table.Text(pv.Spec.StorageClassName), true
}

func volumeReason(pv *corev1.PersistentVolume) (table.Cell, bool) {
	return table.Text(pv.Status.Reason), true
}
