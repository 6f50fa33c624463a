// Package logging provides structured logging helpers for kshell.
//
// Diagnostics are written with the standard library's slog package to
// stderr; command output and user-facing errors never go through here.
// The helpers keep attribute names consistent across packages:
//
//	logger := logging.WithCommand(slog.Default(), "pods")
//	logger.Debug("listing resources",
//	    logging.Context("prod"),
//	    logging.Namespace("default"),
//	    logging.ResourceType("pods"))
//
// Errors returned by the API server frequently embed the server address.
// Use SanitizedErr and Host so IP addresses are redacted before logging.
package logging
