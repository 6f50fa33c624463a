package command

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	k8stesting "k8s.io/client-go/testing"

	"github.com/giantswarm/kshell/internal/config"
	"github.com/giantswarm/kshell/internal/env"
	"github.com/giantswarm/kshell/internal/instrumentation"
	"github.com/giantswarm/kshell/internal/kobj"
)

func TestContextCommand(t *testing.T) {
	s := newShell(t, testPods()...)

	assert.Equal(t, "  dev\n* prod\n", s.mustRun("context"))

	s.mustRun("pods")
	s.mustRun("1")

	out := s.mustRun("ctx dev")
	assert.Equal(t, "Switched to context \"dev\" (namespace \"default\").\n", out)
	assert.Equal(t, "[dev][default][none] > ", s.env.Prompt())
	assert.False(t, s.env.HasListing())

	_, err := s.run("context staging")
	assert.ErrorIs(t, err, env.ErrUnknownContext)
	assert.Equal(t, "dev", s.env.Context())
}

func TestNamespaceCommand(t *testing.T) {
	s := newShell(t, testPods()...)

	assert.Equal(t, "web\n", s.mustRun("namespace"))

	s.mustRun("pods")
	s.mustRun("ns kube-system")
	assert.Equal(t, "kube-system", s.env.Namespace())
	assert.False(t, s.env.HasListing())

	_, err := s.run("ns Not_Valid")
	assert.Error(t, err)
	assert.Equal(t, "kube-system", s.env.Namespace())
}

func TestCompleteNamespaces(t *testing.T) {
	s := newShell(t,
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "web"}},
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "kube-system"}})

	names, err := completeNamespaces(t.Context(), s.env, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"web", "kube-system"}, names)
}

func TestClearCommand(t *testing.T) {
	s := newShell(t, testPods()...)
	s.mustRun("pods")
	s.mustRun("1")

	s.mustRun("clear")
	_, ok := s.env.Current()
	assert.False(t, ok)
	assert.Len(t, s.env.Rows(), 3)
}

func TestEnvCommand(t *testing.T) {
	s := newShell(t, testPods()...)

	out := s.mustRun("env")
	assert.Contains(t, out, "Context:     prod\n")
	assert.Contains(t, out, "Selection:   none\n")
	assert.Contains(t, out, "Rows:        no listing\n")

	s.mustRun("pods -s name")
	s.mustRun("1")
	out = s.mustRun("env")
	assert.Contains(t, out, "Selection:   pod/web/db-0\n")
	assert.Contains(t, out, "Rows:        3\n")
}

func TestDescribeCommand(t *testing.T) {
	s := newShell(t, testPods()...)

	_, err := s.run("describe")
	assert.ErrorIs(t, err, env.ErrNothingSelected)

	s.mustRun("pods -s name")
	out := s.mustRun("describe 2")
	assert.Contains(t, out, "apiVersion: v1\n")
	assert.Contains(t, out, "kind: Pod\n")
	assert.Contains(t, out, "name: web-1\n")
	assert.NotContains(t, out, "managedFields")

	h, _ := s.env.Current()
	assert.Equal(t, "web-1", h.Name)

	_, err = s.run("describe x")
	var usage *UsageError
	assert.ErrorAs(t, err, &usage)
}

func TestDescribeMissingObject(t *testing.T) {
	s := newShell(t)
	s.env.Select(kobj.New(kobj.KindPod, "web", "gone"))

	out, err := s.run("describe")
	require.ErrorIs(t, err, ErrReported)
	assert.Empty(t, out)
	assert.Contains(t, s.errs.String(), `pods "gone" not found`)
}

func TestDeleteCommand(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		s := newShell(t, testPods()...)
		s.mustRun("pods -s name")

		out := s.mustRun("delete 1")
		assert.Equal(t, "Aborted.\n", out)
		require.Len(t, s.confirms, 1)
		assert.Equal(t, `Delete Pod "db-0" in context "prod"?`, s.confirms[0])

		_, err := s.clients["prod"].CoreV1().Pods("web").Get(t.Context(), "db-0", metav1.GetOptions{})
		assert.NoError(t, err)
	})

	t.Run("confirmed", func(t *testing.T) {
		s := newShell(t, testPods()...)
		s.answer = true
		s.mustRun("pods -s name")
		s.mustRun("1")

		out := s.mustRun("delete")
		assert.Equal(t, "Pod \"db-0\" deleted.\n", out)

		_, err := s.clients["prod"].CoreV1().Pods("web").Get(t.Context(), "db-0", metav1.GetOptions{})
		assert.True(t, apierrors.IsNotFound(err))
		_, ok := s.env.Current()
		assert.False(t, ok)
	})

	t.Run("yes flag and grace period", func(t *testing.T) {
		s := newShell(t, testPods()...)
		s.mustRun("pods -s name")

		var got metav1.DeleteOptions
		s.clients["prod"].PrependReactor("delete", "pods", func(a k8stesting.Action) (bool, runtime.Object, error) {
			got = a.(k8stesting.DeleteAction).GetDeleteOptions()
			return false, nil, nil
		})

		s.mustRun("delete 3 --yes --grace 0")
		assert.Empty(t, s.confirms)
		require.NotNil(t, got.GracePeriodSeconds)
		assert.Equal(t, int64(0), *got.GracePeriodSeconds)
	})

	t.Run("confirmation disabled by setting", func(t *testing.T) {
		s := newShell(t, testPods()...)
		s.env.Settings().ConfirmDelete = false
		s.mustRun("pods -s name")

		s.mustRun("delete 2")
		assert.Empty(t, s.confirms)
	})

	t.Run("invalid grace", func(t *testing.T) {
		s := newShell(t, testPods()...)
		s.mustRun("pods")
		actions := s.prodActions()

		_, err := s.run("delete 1 --grace -5")
		var usage *UsageError
		require.ErrorAs(t, err, &usage)
		assert.Equal(t, actions, s.prodActions())
	})
}

func TestKindTitle(t *testing.T) {
	assert.Equal(t, "Pod", kindTitle(kobj.KindPod))
	assert.Equal(t, "Persistent Volume Claim", kindTitle(kobj.KindPersistentVolumeClaim))
	assert.Equal(t, "Config Map", kindTitle(kobj.KindConfigMap))
	assert.Equal(t, "Object", kindTitle(kobj.KindUnknown))
}

func TestSetCommand(t *testing.T) {
	s := newShell(t)
	path := filepath.Join(t.TempDir(), "kshell.yaml")
	s.env = env.New(s.env.KubeConfig(), nil, config.DefaultSettings(), config.Paths{Settings: path},
		env.WithErrorWriter(s.errs))
	s.d = NewDispatcher(Default(), s.env, nil)

	out := s.mustRun("set")
	assert.Contains(t, out, "history_limit = 1000\n")

	s.mustRun("set request_timeout 5s")
	assert.Equal(t, "request_timeout = 5s\n", s.mustRun("set request_timeout"))

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "5s", loaded.RequestTimeout.String())

	_, err = s.run("set request_timeout soon")
	assert.Error(t, err)
	_, err = s.run("set colour blue")
	assert.Error(t, err)
}

func TestStatsCommand(t *testing.T) {
	provider, err := instrumentation.NewProvider(t.Context(), instrumentation.Config{ServiceName: "kshell-test"})
	require.NoError(t, err)

	s := newShell(t, testPods()...)
	s.env = env.New(s.env.KubeConfig(), s.factory(), config.DefaultSettings(), config.Paths{},
		env.WithErrorWriter(s.errs), env.WithMetrics(provider.Metrics()))
	s.d = NewDispatcher(Default(), s.env, provider)

	s.mustRun("pods")
	_, _ = s.run("nope")
	out := s.mustRun("stats")

	got := lines(out)
	require.NotEmpty(t, got)
	assert.Equal(t, []string{"Metric", "Labels", "Count", "Value"}, strings.Fields(got[0]))
	assert.Contains(t, out, "commands_total")
	assert.Contains(t, out, "command=pods")
	assert.Contains(t, out, "kubernetes_operations_total")
}

func TestStatsWithoutGatherer(t *testing.T) {
	s := newShell(t)
	assert.Equal(t, "Statistics are not available.\n", s.mustRun("stats"))
}

func TestHelpCommand(t *testing.T) {
	s := newShell(t)

	out := s.mustRun("help")
	assert.Contains(t, out, "Commands:\n")
	assert.Contains(t, out, "persistentvolumes")
	assert.Contains(t, out, "(pv, pvs)")

	out = s.mustRun("? pods")
	assert.Contains(t, out, "Usage: pods [flags]")

	_, err := s.run("help frobnicate")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestQuitCommand(t *testing.T) {
	s := newShell(t)
	for _, name := range []string{"quit", "exit", "q"} {
		_, err := s.run(name)
		assert.True(t, IsQuit(err), name)
	}
	assert.Empty(t, s.errs.String())
}
