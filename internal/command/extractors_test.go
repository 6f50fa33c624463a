package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

func TestPodStatus(t *testing.T) {
	now := metav1.NewTime(testNow)
	tests := []struct {
		name string
		pod  corev1.Pod
		want string
	}{
		{
			name: "phase",
			pod:  corev1.Pod{Status: corev1.PodStatus{Phase: corev1.PodRunning}},
			want: "Running",
		},
		{
			name: "terminating wins",
			pod: corev1.Pod{
				ObjectMeta: metav1.ObjectMeta{DeletionTimestamp: &now},
				Status:     corev1.PodStatus{Phase: corev1.PodRunning},
			},
			want: "Terminating",
		},
		{
			name: "waiting reason",
			pod: corev1.Pod{Status: corev1.PodStatus{
				Phase: corev1.PodRunning,
				ContainerStatuses: []corev1.ContainerStatus{{
					State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "CrashLoopBackOff"}},
				}},
			}},
			want: "CrashLoopBackOff",
		},
		{
			name: "init container failing",
			pod: corev1.Pod{Status: corev1.PodStatus{
				Phase: corev1.PodPending,
				InitContainerStatuses: []corev1.ContainerStatus{{
					State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{ExitCode: 1}},
				}},
			}},
			want: "Init:Error",
		},
		{
			name: "pod reason",
			pod:  corev1.Pod{Status: corev1.PodStatus{Phase: corev1.PodFailed, Reason: "Evicted"}},
			want: "Evicted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, ok := podStatus(&tt.pod)
			assert.True(t, ok)
			assert.Equal(t, tt.want, cell.Text)
		})
	}

	_, ok := podStatus(&corev1.Pod{})
	assert.False(t, ok)
}

func TestPodReadyAndRestarts(t *testing.T) {
	pod := &corev1.Pod{
		Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "a"}, {Name: "b"}}},
		Status: corev1.PodStatus{ContainerStatuses: []corev1.ContainerStatus{
			{Ready: true, RestartCount: 2},
			{Ready: false, RestartCount: 5},
		}},
	}

	ready, _ := podReady(pod)
	assert.Equal(t, "1/2", ready.Text)
	restarts, _ := podRestarts(pod)
	assert.Equal(t, "7", restarts.Text)
}

func TestServiceColumns(t *testing.T) {
	svc := &corev1.Service{
		Spec: corev1.ServiceSpec{
			Type:      corev1.ServiceTypeLoadBalancer,
			ClusterIP: "10.96.0.10",
			Ports: []corev1.ServicePort{
				{Port: 80, NodePort: 30080},
				{Port: 53, Protocol: corev1.ProtocolUDP},
			},
		},
	}

	ports, _ := servicePorts(svc)
	assert.Equal(t, "80:30080/TCP,53/UDP", ports.Text)

	external, _ := serviceExternalIPs(svc)
	assert.Equal(t, "<pending>", external.Text)

	svc.Status.LoadBalancer.Ingress = []corev1.LoadBalancerIngress{{IP: "203.0.113.7"}, {Hostname: "lb.example.com"}}
	external, _ = serviceExternalIPs(svc)
	assert.Equal(t, "203.0.113.7,lb.example.com", external.Text)

	typ, _ := serviceType(&corev1.Service{})
	assert.Equal(t, "ClusterIP", typ.Text)
}

func TestNodeColumns(t *testing.T) {
	node := testNode("n", true, "4")
	node.Spec.Unschedulable = true
	node.Labels[nodeRolePrefix+"control-plane"] = ""

	status, _ := nodeStatus(node)
	assert.Equal(t, "Ready,SchedulingDisabled", status.Text)

	roles, _ := nodeRoles(node)
	assert.Equal(t, "control-plane,worker", roles.Text)

	status, _ = nodeStatus(&corev1.Node{})
	assert.Equal(t, "Unknown", status.Text)
}

func TestPersistentVolumeColumns(t *testing.T) {
	pv := &corev1.PersistentVolume{
		Spec: corev1.PersistentVolumeSpec{
			Capacity:                      corev1.ResourceList{corev1.ResourceStorage: resource.MustParse("10Gi")},
			AccessModes:                   []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce, corev1.ReadOnlyMany, corev1.ReadWriteOncePod},
			PersistentVolumeReclaimPolicy: corev1.PersistentVolumeReclaimRetain,
			ClaimRef:                      &corev1.ObjectReference{Namespace: "web", Name: "data"},
			StorageClassName:              "standard",
		},
		Status: corev1.PersistentVolumeStatus{Phase: corev1.VolumeBound},
	}

	want := map[string]string{
		"Capacity":       "10Gi",
		"Access Modes":   "RWO, ROX, RWOP",
		"Reclaim Policy": "Retain",
		"Status":         "Bound",
		"Claim":          "web/data",
		"Storage Class":  "standard",
		"Reason":         "",
	}
	for header, text := range want {
		cell, ok := persistentVolumeExtractors[header](pv)
		assert.True(t, ok, header)
		assert.Equal(t, text, cell.Text, header)
	}

	pv.Spec.ClaimRef = nil
	claim, ok := volumeClaim(pv)
	assert.True(t, ok)
	assert.Empty(t, claim.Text)
}

func TestPersistentVolumeListingSortsByCapacity(t *testing.T) {
	small := &corev1.PersistentVolume{
		ObjectMeta: metav1.ObjectMeta{Name: "small"},
		Spec:       corev1.PersistentVolumeSpec{Capacity: corev1.ResourceList{corev1.ResourceStorage: resource.MustParse("900Mi")}},
	}
	large := &corev1.PersistentVolume{
		ObjectMeta: metav1.ObjectMeta{Name: "large"},
		Spec:       corev1.PersistentVolumeSpec{Capacity: corev1.ResourceList{corev1.ResourceStorage: resource.MustParse("2Gi")}},
	}
	s := newShell(t, large, small)

	out := s.mustRun("pvs -s capacity")
	header := lines(out)[0]
	assert.True(t, strings.HasPrefix(header, "####  Name   Age  Capacity  Access Modes  Reclaim Policy"), header)
	assert.Equal(t, []string{"small", "large"}, rowNames(s.env))
}

func TestDeploymentColumns(t *testing.T) {
	d := &appsv1.Deployment{
		Spec:   appsv1.DeploymentSpec{Replicas: ptr.To[int32](3)},
		Status: appsv1.DeploymentStatus{Replicas: 3, UpdatedReplicas: 2, AvailableReplicas: 1},
	}

	var got []string
	for _, header := range []string{"Desired", "Current", "Up To Date", "Available"} {
		cell, _ := deploymentExtractors[header](d)
		got = append(got, cell.Text)
	}
	assert.Equal(t, []string{"3", "3", "2", "1"}, got)

	desired, _ := deploymentExtractors["Desired"](&appsv1.Deployment{})
	assert.Equal(t, "1", desired.Text)
}
