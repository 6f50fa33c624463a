package command

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/giantswarm/kshell/internal/config"
	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/k8s"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type shell struct {
	t        *testing.T
	env      *env.Env
	d        *Dispatcher
	errs     *bytes.Buffer
	clients  map[string]*fake.Clientset
	confirms []string
	answer   bool
}

// newShell returns a dispatcher over the default registry with two
// contexts: "prod" (namespace "web") holding objs, and an empty "dev".
func newShell(t *testing.T, objs ...runtime.Object) *shell {
	t.Helper()

	raw := clientcmdapi.NewConfig()
	raw.Clusters["c"] = &clientcmdapi.Cluster{Server: "https://example.invalid"}
	raw.AuthInfos["u"] = &clientcmdapi.AuthInfo{}
	raw.Contexts["prod"] = &clientcmdapi.Context{Cluster: "c", AuthInfo: "u", Namespace: "web"}
	raw.Contexts["dev"] = &clientcmdapi.Context{Cluster: "c", AuthInfo: "u"}
	raw.CurrentContext = "prod"
	cfg, err := k8s.NewKubeConfig(*raw)
	require.NoError(t, err)

	s := &shell{
		t:    t,
		errs: &bytes.Buffer{},
		clients: map[string]*fake.Clientset{
			"prod": fake.NewClientset(objs...),
			"dev":  fake.NewClientset(),
		},
	}
	s.env = env.New(cfg, s.factory(), config.DefaultSettings(), config.Paths{},
		env.WithErrorWriter(s.errs),
		env.WithClock(func() time.Time { return testNow }),
		env.WithConfirm(func(q string) bool {
			s.confirms = append(s.confirms, q)
			return s.answer
		}))
	s.d = NewDispatcher(Default(), s.env, nil)
	return s
}

func (s *shell) factory() k8s.ClientFactory {
	return k8s.ClientFactoryFunc(func(name string) (kubernetes.Interface, error) {
		return s.clients[name], nil
	})
}

// run dispatches line and returns its output.
func (s *shell) run(line string) (string, error) {
	s.t.Helper()
	var out bytes.Buffer
	err := s.d.Dispatch(context.Background(), line, &out)
	return out.String(), err
}

// mustRun dispatches line and fails the test on error.
func (s *shell) mustRun(line string) string {
	s.t.Helper()
	out, err := s.run(line)
	require.NoError(s.t, err, "line %q, errors: %s", line, s.errs.String())
	return out
}

func (s *shell) prodActions() int {
	return len(s.clients["prod"].Actions())
}

func lines(out string) []string {
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

func testPod(name string, restarts int32, phase corev1.PodPhase, age time.Duration) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			Namespace:         "web",
			CreationTimestamp: metav1.NewTime(testNow.Add(-age)),
			Labels:            map[string]string{"app": strings.SplitN(name, "-", 2)[0]},
		},
		Spec: corev1.PodSpec{
			NodeName:   "node-a",
			Containers: []corev1.Container{{Name: "main"}},
		},
		Status: corev1.PodStatus{
			Phase: phase,
			PodIP: "10.0.0.1",
			ContainerStatuses: []corev1.ContainerStatus{
				{Name: "main", Ready: phase == corev1.PodRunning, RestartCount: restarts},
			},
		},
	}
}

func testPods() []runtime.Object {
	return []runtime.Object{
		testPod("web-1", 3, corev1.PodRunning, 2*time.Hour),
		testPod("web-2", 12, corev1.PodRunning, 90*time.Minute),
		testPod("db-0", 0, corev1.PodPending, 3*24*time.Hour),
	}
}

func testNode(name string, ready bool, cpu string) *corev1.Node {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			CreationTimestamp: metav1.NewTime(testNow.Add(-24 * time.Hour)),
			Labels:            map[string]string{nodeRolePrefix + "worker": ""},
		},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: status}},
			Capacity: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse(cpu),
				corev1.ResourceMemory: resource.MustParse("8Gi"),
			},
			NodeInfo: corev1.NodeSystemInfo{KubeletVersion: "v1.34.1"},
		},
	}
}
