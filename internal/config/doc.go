// Package config loads and saves the assistant configuration.
//
// The file lives at ~/.config/assistant/config.yaml unless overridden. Every
// key has a default and can be overridden from the environment with the
// ASSISTANT_ prefix, dots replaced by underscores (ASSISTANT_CALENDAR_ID,
// ASSISTANT_LOGGING_LEVEL, ...).
//
// Saving rewrites the whole file; concurrent writers race and the last one
// wins.
package config
