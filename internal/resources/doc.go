// Package resources exposes read-only assistant state as MCP resources.
//
// Clients read these before calling tools, e.g. to learn the work hours a
// calendar_add will be checked against or the rules calendar_match_prefs
// resolves from:
//
//   - assistant://profile: work profile, time zone and calendar
//   - assistant://preferences: event preference rules and defaults
//   - assistant://tasks/summary: pending, overdue and due-today counts
package resources
