// Package logging builds the slog loggers used across subhook.
//
// Two output formats exist: a console handler that renders
// "TIMESTAMP LEVEL component: message key=value" lines, and a JSON handler
// for machine consumption. When no format is configured, console is chosen
// if stderr is a terminal.
package logging
