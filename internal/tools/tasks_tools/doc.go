// Package tasks_tools provides MCP tools for the local task list.
//
// # Available Tools
//
//   - tasks_list: pending, today, week, overdue, category, summary or
//     completed view
//   - tasks_add: add a task with priority, category and due date
//   - tasks_complete: mark one or more tasks done by id prefix or title text
//
// A tasks_complete query matching several tasks returns the candidates
// instead of guessing; call again with an id prefix.
package tasks_tools
