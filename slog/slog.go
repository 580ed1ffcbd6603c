// Package slog decorates mdclip services with structured logging.
package slog
