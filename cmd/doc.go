// Package cmd implements the command-line interface for assistant.
//
// This package provides the following commands:
//   - setup: Authenticate with Google and choose or create the assistant calendar
//   - status: Show the configured calendar, time zone and profile
//   - list, search, free: Read events and free time
//   - add, delete, reschedule: Change events, with conflict checks and confirmation
//   - match, update-prefs, profile: Inspect and edit preferences and the work profile
//   - export: Write events as an iCalendar file
//   - tasks: Manage the local task list
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// Every command accepts --json for machine-readable output and --config to
// use another config file. Only this package decides exit codes.
package cmd
