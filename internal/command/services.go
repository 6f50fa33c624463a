package command

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kshell/internal/kobj"
	"github.com/giantswarm/kshell/internal/table"
)

var serviceExtractors = map[string]table.Extractor[corev1.Service]{
	"Type":         serviceType,
	"Cluster IP":   serviceClusterIP,
	"External IPs": serviceExternalIPs,
	"Ports":        servicePorts,
}

var servicesCommand = resourceCommand[corev1.Service]{
	Kind:       kobj.KindService,
	Name:       "services",
	Aliases:    []string{"service", "svc"},
	About:      "List services in the current namespace",
	Headers:    []string{"Name", "Type", "Cluster IP", "External IPs", "Ports", "Age"},
	Extractors: serviceExtractors,
	List: func(ctx context.Context, c kubernetes.Interface, ns string, opts metav1.ListOptions) ([]corev1.Service, error) {
		list, err := c.CoreV1().Services(ns).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	},
}.command()

func serviceType(svc *corev1.Service) (table.Cell, bool) {
	if svc.Spec.Type == "" {
		return table.Text(string(corev1.ServiceTypeClusterIP)), true
	}
	return table.Text(string(svc.Spec.Type)), true
}

func serviceClusterIP(svc *corev1.Service) (table.Cell, bool) {
	if svc.Spec.ClusterIP == "" {
		return table.Cell{}, false
	}
	return table.Text(svc.Spec.ClusterIP), true
}

func serviceExternalIPs(svc *corev1.Service) (table.Cell, bool) {
	var ips []string
	for _, ing := range svc.Status.LoadBalancer.Ingress {
		if ing.IP != "" {
			ips = append(ips, ing.IP)
		} else if ing.Hostname != "" {
			ips = append(ips, ing.Hostname)
		}
	}
	ips = append(ips, svc.Spec.ExternalIPs...)
	if svc.Spec.Type == corev1.ServiceTypeExternalName {
		ips = append(ips, svc.Spec.ExternalName)
	}
	if len(ips) == 0 {
		if svc.Spec.Type == corev1.ServiceTypeLoadBalancer {
			return table.Text("<pending>"), true
		}
		return table.Text("<none>"), true
	}
	return table.Text(strings.Join(ips, ",")), true
}

func servicePorts(svc *corev1.Service) (table.Cell, bool) {
	if len(svc.Spec.Ports) == 0 {
		return table.Text("<none>"), true
	}
	ports := make([]string, 0, len(svc.Spec.Ports))
	for _, p := range svc.Spec.Ports {
		protocol := p.Protocol
		if protocol == "" {
			protocol = corev1.ProtocolTCP
		}
		if p.NodePort != 0 {
			ports = append(ports, fmt.Sprintf("%d:%d/%s", p.Port, p.NodePort, protocol))
		} else {
			ports = append(ports, fmt.Sprintf("%d/%s", p.Port, protocol))
		}
	}
	return table.Text(strings.Join(ports, ",")), true
}
