package command

import (
	"context"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

const nodeRolePrefix = "node-role.kubernetes.io/"

var nodeExtractors = map[string]table.Extractor[corev1.Node]{
	"Status":  nodeStatus,
	"Roles":   nodeRoles,
	"Version": nodeVersion,
	"CPU":     nodeCPU,
	"Memory":  nodeMemory,
}

var nodesCommand = resourceCommand[corev1.Node]{
	Kind:       kobj.KindNode,
	Name:       "nodes",
	Aliases:    []string{"node", "no"},
	About:      "List nodes in the current context",
	Headers:    []string{"Name", "Status", "Roles", "Age", "Version", "CPU", "Memory"},
	Extractors: nodeExtractors,
	List: func(ctx context.Context, c kubernetes.Interface, _ string, opts metav1.ListOptions) ([]corev1.Node, error) {
		list, err := c.CoreV1().Nodes().List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	},
}.command()

func nodeStatus(node *corev1.Node) (table.Cell, bool) {
	status := "Unknown"
	for _, cond := range node.Status.Conditions {
		if cond.Type != corev1.NodeReady {
			continue
		}
		if cond.Status == corev1.ConditionTrue {
			status = "Ready"
		} else {
			status = "NotReady"
		}
	}
	if node.Spec.Unschedulable {
		status += ",SchedulingDisabled"
	}
	return table.Text(status), true
}

func nodeRoles(node *corev1.Node) (table.Cell, bool) {
	var roles []string
	for label := range node.Labels {
		if role, ok := strings.CutPrefix(label, nodeRolePrefix); ok && role != "" {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		return table.Text("<none>"), true
	}
	sort.Strings(roles)
	return table.Text(strings.Join(roles, ",")), true
}

func nodeVersion(node *corev1.Node) (table.Cell, bool) {
	if node.Status.NodeInfo.KubeletVersion == "" {
		return table.Cell{}, false
	}
	return table.Text(node.Status.NodeInfo.KubeletVersion), true
}

func nodeCPU(node *corev1.Node) (table.Cell, bool) {
	q, ok := node.Status.Capacity[corev1.ResourceCPU]
	if !ok {
		return table.Cell{}, false
	}
	return table.Quantity(q), true
}

func nodeMemory(node *corev1.Node) (table.Cell, bool) {
	q, ok := node.Status.Capacity[corev1.ResourceMemory]
	if !ok {
		return table.Cell{}, false
	}
	return table.Quantity(q), true
}
