package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKubeconfig = `apiVersion: v1
kind: Config
current-context: prod
clusters:
- name: prod
  cluster:
    server: https://prod.example.com:6443
- name: dev
  cluster:
    server: https://dev.example.com:6443
users:
- name: admin
  user:
    token: secret
contexts:
- name: prod
  context:
    cluster: prod
    user: admin
    namespace: web
- name: dev
  context:
    cluster: dev
    user: admin
`

func writeConfigDir(t *testing.T, settings string) string {
	t.Helper()
	t.Setenv("KUBECONFIG", "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config"), []byte(testKubeconfig), 0o600))
	if settings != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "kshell.yaml"), []byte(settings), 0o600))
	}
	return dir
}

func TestNewSession(t *testing.T) {
	dir := writeConfigDir(t, "")

	var errOut bytes.Buffer
	s, err := newSession(t.Context(), &rootOptions{configDir: dir, logLevel: "error"}, sessionIO{
		errOut:  &errOut,
		confirm: func(string) bool { return false },
	})
	require.NoError(t, err)
	defer s.close()

	assert.Equal(t, "prod", s.env.Context())
	assert.Equal(t, "web", s.env.Namespace())
	assert.Equal(t, filepath.Join(dir, "kshell.history"), s.env.Paths().History)
	assert.Empty(t, errOut.String())

	var out bytes.Buffer
	require.NoError(t, s.dispatcher.Dispatch(t.Context(), "stats", &out))
	assert.NotContains(t, out.String(), "not available")
}

func TestNewSessionAppliesFlags(t *testing.T) {
	dir := writeConfigDir(t, "")

	s, err := newSession(t.Context(), &rootOptions{
		configDir: dir,
		context:   "dev",
		namespace: "batch",
		logLevel:  "error",
	}, sessionIO{errOut: &bytes.Buffer{}, confirm: func(string) bool { return false }})
	require.NoError(t, err)
	defer s.close()

	assert.Equal(t, "dev", s.env.Context())
	assert.Equal(t, "batch", s.env.Namespace())
	assert.Contains(t, s.completer.Complete(t.Context(), "na"), "namespaces")
}

func TestNewSessionErrors(t *testing.T) {
	dir := writeConfigDir(t, "")

	tests := []struct {
		name string
		opts rootOptions
	}{
		{name: "unknown context", opts: rootOptions{configDir: dir, context: "staging", logLevel: "error"}},
		{name: "bad log level", opts: rootOptions{configDir: dir, logLevel: "loud"}},
		{name: "missing kubeconfig", opts: rootOptions{configDir: t.TempDir(), logLevel: "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSession(t.Context(), &tt.opts, sessionIO{errOut: &bytes.Buffer{}})
			assert.Error(t, err)
		})
	}
}

func TestNewSessionWarnsOnBadSettings(t *testing.T) {
	dir := writeConfigDir(t, "history_limit: [oops\n")

	var errOut bytes.Buffer
	s, err := newSession(t.Context(), &rootOptions{configDir: dir, logLevel: "error"}, sessionIO{
		errOut:  &errOut,
		confirm: func(string) bool { return false },
	})
	require.NoError(t, err)
	defer s.close()

	assert.Contains(t, errOut.String(), "warning:")
	assert.Contains(t, errOut.String(), "using default settings")
}

func TestRunShellExec(t *testing.T) {
	dir := writeConfigDir(t, "")

	err := runShell(t.Context(), &rootOptions{configDir: dir, logLevel: "error", exec: "env"})
	assert.NoError(t, err)

	err = runShell(t.Context(), &rootOptions{configDir: dir, logLevel: "error", exec: "quit"})
	assert.NoError(t, err)

	err = runShell(t.Context(), &rootOptions{configDir: dir, logLevel: "error", exec: "frobnicate"})
	assert.ErrorIs(t, err, errCommandFailed)
}
