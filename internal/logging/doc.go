// Package logging constructs the slog loggers used across unitypack and
// provides typed attribute helpers so call sites stay terse.
package logging
