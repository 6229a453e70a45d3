// Package calendar_tools exposes the scheduling engine as MCP tools.
//
// Tool calls are headless. Nobody can answer a prompt, so decisions come
// back as structured reports instead:
//   - calendar_add with conflicts and no confirmed=true reports the conflicts
//   - an ambiguous title lists the candidates; pass eventId to pick one
//   - calendar_delete and calendar_reschedule return a preview until called
//     again with confirmed=true
package calendar_tools
