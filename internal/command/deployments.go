package command

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

var deploymentExtractors = map[string]table.Extractor[appsv1.Deployment]{
	"Desired": func(d *appsv1.Deployment) (table.Cell, bool) {
		desired := int32(1)
		if d.Spec.Replicas != nil {
			desired = *d.Spec.Replicas
		}
		return table.Int(int64(desired)), true
	},
	"Current": func(d *appsv1.Deployment) (table.Cell, bool) {
		return table.Int(int64(d.Status.Replicas)), true
	},
	"Up To Date": func(d *appsv1.Deployment) (table.Cell, bool) {
		return table.Int(int64(d.Status.UpdatedReplicas)), true
	},
	"Available": func(d *appsv1.Deployment) (table.Cell, bool) {
		return table.Int(int64(d.Status.AvailableReplicas)), true
	},
}

var deploymentsCommand = resourceCommand[appsv1.Deployment]{
	Kind:       kobj.KindDeployment,
	Name:       "deployments",
	Aliases:    []string{"deployment", "deploy"},
	About:      "List deployments in the current namespace",
	Headers:    []string{"Name", "Desired", "Current", "Up To Date", "Available", "Age"},
	Extractors: deploymentExtractors,
	List: func(ctx context.Context, c kubernetes.Interface, ns string, opts metav1.ListOptions) ([]appsv1.Deployment, error) {
		list, err := c.AppsV1().Deployments(ns).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	},
}.command()
