// Package log provides slog loggers that sanitize sensitive values.
//
// Cookies and auth headers from the site configuration file, and credentials
// embedded in URLs, are masked before reaching the output, even in verbose
// mode.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
