// Package completion proposes candidates for a partially typed shell line.
//
// Command names, aliases, flag names and enumerated flag values are known
// without cluster access. Commands with a completion hook, such as
// namespace, add candidates fetched from the cluster. Those lookups are
// bounded by the completion_timeout setting, shared between concurrent
// requests, and skipped while a command is running; in each of those cases
// only the static candidates are offered.
package completion
