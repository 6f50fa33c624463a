// Package env holds the interactive shell's process state.
//
// An Env tracks the active kubeconfig context and namespace, the selected
// object and the rows of the most recent successful listing, which is what
// lets "describe 3" refer to the third row on screen. It also owns one
// Kubernetes client per context and funnels every API call through
// RunOnContext, so command code never handles transport errors itself.
package env
