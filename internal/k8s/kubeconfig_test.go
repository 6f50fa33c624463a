package k8s

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

func testConfig(current string, contexts map[string]string) *clientcmdapi.Config {
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["c1"] = &clientcmdapi.Cluster{Server: "https://10.0.0.1:6443"}
	cfg.AuthInfos["u1"] = &clientcmdapi.AuthInfo{Token: "t"}
	for name, ns := range contexts {
		cfg.Contexts[name] = &clientcmdapi.Context{Cluster: "c1", AuthInfo: "u1", Namespace: ns}
	}
	cfg.CurrentContext = current
	return cfg
}

func writeConfig(t *testing.T, dir, name string, cfg *clientcmdapi.Config) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, clientcmd.WriteToFile(*cfg, path))
	return path
}

func TestKubeconfigPaths(t *testing.T) {
	t.Run("default under config dir", func(t *testing.T) {
		t.Setenv(KubeconfigEnv, "")
		assert.Equal(t, []string{filepath.Join("/cfg", "config")}, KubeconfigPaths("/cfg"))
	})

	t.Run("env list is split", func(t *testing.T) {
		sep := string(filepath.ListSeparator)
		t.Setenv(KubeconfigEnv, strings.Join([]string{"/a", "", "/b"}, sep))
		assert.Equal(t, []string{"/a", "/b"}, KubeconfigPaths("/cfg"))
	})
}

func TestLoadKubeConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing files", func(t *testing.T) {
		_, err := LoadKubeConfig([]string{filepath.Join(dir, "nope")})
		assert.Error(t, err)
	})

	t.Run("merges files", func(t *testing.T) {
		a := writeConfig(t, dir, "a", testConfig("prod", map[string]string{"prod": "web"}))
		b := writeConfig(t, dir, "b", testConfig("", map[string]string{"dev": ""}))

		cfg, err := LoadKubeConfig([]string{a, b, filepath.Join(dir, "missing")})
		require.NoError(t, err)
		assert.Equal(t, []string{"dev", "prod"}, cfg.Contexts())
		assert.Equal(t, "prod", cfg.CurrentContext())
		assert.Equal(t, "web", cfg.ContextNamespace("prod"))
		assert.Equal(t, DefaultNamespace, cfg.ContextNamespace("dev"))
		assert.Equal(t, "https://10.0.0.1:6443", cfg.Server("dev"))
	})

	t.Run("no contexts", func(t *testing.T) {
		empty := writeConfig(t, dir, "empty", clientcmdapi.NewConfig())
		_, err := LoadKubeConfig([]string{empty})
		assert.ErrorIs(t, err, ErrNoContexts)
	})

	t.Run("unreadable yaml", func(t *testing.T) {
		bad := filepath.Join(dir, "bad")
		require.NoError(t, os.WriteFile(bad, []byte("{not yaml"), 0o600))
		_, err := LoadKubeConfig([]string{bad})
		assert.Error(t, err)
	})
}

func TestKubeConfigCurrentContextFallback(t *testing.T) {
	cfg, err := NewKubeConfig(*testConfig("gone", map[string]string{"zeta": "", "alpha": ""}))
	require.NoError(t, err)
	assert.Equal(t, "alpha", cfg.CurrentContext())
	assert.False(t, cfg.HasContext("gone"))
}

func TestKubeConfigRESTConfig(t *testing.T) {
	cfg, err := NewKubeConfig(*testConfig("prod", map[string]string{"prod": ""}))
	require.NoError(t, err)

	rc, err := cfg.RESTConfig("prod")
	require.NoError(t, err)
	assert.Equal(t, "https://10.0.0.1:6443", rc.Host)

	_, err = cfg.RESTConfig("other")
	assert.Error(t, err)
}
