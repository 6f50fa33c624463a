package command

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

var podExtractors = map[string]table.Extractor[corev1.Pod]{
	"Ready":    podReady,
	"Status":   podStatus,
	"Restarts": podRestarts,
	"Node":     podNode,
	"IP":       podIP,
}

var podsCommand = resourceCommand[corev1.Pod]{
	Kind:       kobj.KindPod,
	Name:       "pods",
	Aliases:    []string{"pod", "po"},
	About:      "List pods in the current namespace",
	Headers:    []string{"Name", "Ready", "Status", "Restarts", "Age", "Node", "IP"},
	Extractors: podExtractors,
	List: func(ctx context.Context, c kubernetes.Interface, ns string, opts metav1.ListOptions) ([]corev1.Pod, error) {
		list, err := c.CoreV1().Pods(ns).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	},
}.command()

func podReady(pod *corev1.Pod) (table.Cell, bool) {
	total := len(pod.Spec.Containers)
	ready := 0
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
	}
	return table.Number(fmt.Sprintf("%d/%d", ready, total), float64(ready)), true
}

// podStatus mirrors the reason kubectl shows: terminating, a waiting or
// terminated container reason, the pod reason, then the phase.
func podStatus(pod *corev1.Pod) (table.Cell, bool) {
	if pod.DeletionTimestamp != nil {
		return table.Text("Terminating"), true
	}
	for _, cs := range pod.Status.InitContainerStatuses {
		if w := cs.State.Waiting; w != nil && w.Reason != "" && w.Reason != "PodInitializing" {
			return table.Text("Init:" + w.Reason), true
		}
		if t := cs.State.Terminated; t != nil && t.ExitCode != 0 {
			return table.Text("Init:Error"), true
		}
	}
	for _, cs := range pod.Status.ContainerStatuses {
		if w := cs.State.Waiting; w != nil && w.Reason != "" {
			return table.Text(w.Reason), true
		}
		if t := cs.State.Terminated; t != nil && t.Reason != "" {
			return table.Text(t.Reason), true
		}
	}
	if pod.Status.Reason != "" {
		return table.Text(pod.Status.Reason), true
	}
	if pod.Status.Phase == "" {
		return table.Cell{}, false
	}
	return table.Text(string(pod.Status.Phase)), true
}

func podRestarts(pod *corev1.Pod) (table.Cell, bool) {
	var restarts int32
	for _, cs := range pod.Status.ContainerStatuses {
		restarts += cs.RestartCount
	}
	return table.Int(int64(restarts)), true
}

func podNode(pod *corev1.Pod) (table.Cell, bool) {
	if pod.Spec.NodeName == "" {
		return table.Cell{}, false
	}
	return table.Text(pod.Spec.NodeName), true
}

func podIP(pod *corev1.Pod) (table.Cell, bool) {
	if pod.Status.PodIP == "" {
		return table.Cell{}, false
	}
	return table.Text(pod.Status.PodIP), true
}
