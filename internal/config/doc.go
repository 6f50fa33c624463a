// Package config resolves the shell's on-disk locations and loads the
// persisted application settings (kshell.yaml) stored next to the
// kubeconfig.
package config
