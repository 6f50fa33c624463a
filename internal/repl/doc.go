// Package repl runs the kshell read-eval-print loop.
//
// A Processor reads lines with github.com/chzyer/readline, which provides
// line editing, a persisted history file and tab completion, and hands
// each line to the command dispatcher. The prompt shows the active
// context, namespace and selection and is refreshed before every read.
//
// Ctrl-C at the prompt clears the current line. While a command runs,
// Ctrl-C cancels that command's context and the session continues.
// Ctrl-D or the quit command ends the session.
package repl
