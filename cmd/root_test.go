package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdProperties(t *testing.T) {
	assert.Equal(t, "kshell", rootCmd.Use)
	assert.Equal(t, "Interactive shell for Kubernetes clusters", rootCmd.Short)
	assert.True(t, strings.Contains(rootCmd.Long, "kubeconfig"))
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
	assert.NotNil(t, rootCmd.RunE)
}

func TestRootCmdRunsExec(t *testing.T) {
	dir := writeConfigDir(t, "")

	originalOpts := opts
	defer func() {
		opts = originalOpts
	}()

	rootCmd.SetArgs([]string{"--config-dir", dir, "--log-level", "error", "--exec", "env"})
	defer rootCmd.SetArgs(nil)

	assert.NoError(t, rootCmd.Execute())
}

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() {
		rootCmd.Version = originalVersion
	}()

	testVersion := "v1.2.3-test"
	SetVersion(testVersion)

	assert.Equal(t, testVersion, rootCmd.Version)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	var foundCommands []string
	for _, cmd := range rootCmd.Commands() {
		foundCommands = append(foundCommands, cmd.Use)
	}

	assert.Contains(t, foundCommands, "version")
	assert.Contains(t, foundCommands, "self-update")
	assert.Contains(t, foundCommands, "mcp")
}

func TestRootFlags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{name: "config-dir", shorthand: "c"},
		{name: "context", shorthand: "C"},
		{name: "namespace", shorthand: "n"},
		{name: "log-level", def: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rootCmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}

	exec := rootCmd.Flags().Lookup("exec")
	require.NotNil(t, exec)
	assert.Equal(t, "e", exec.Shorthand)
}
