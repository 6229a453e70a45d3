// Package tasks keeps a lightweight local task list next to the calendar.
//
// Tasks live in a single JSON file that is rewritten on every change. The
// Manager answers the day-to-day queries:
//   - pending tasks ordered by priority, then due date
//   - today: due today plus undated high-priority tasks
//   - week: due within the next seven days
//   - overdue tasks and per-category groups
//   - a one-line summary of the counts
//
// Tasks are addressed by an id prefix or a case-insensitive title substring.
// Several matches go to a Chooser; without one the caller gets an
// AmbiguousMatchError listing the candidates.
//
// # Example Usage
//
//	m := tasks.NewManager(tasks.NewFileStore(path), tasks.Options{Location: loc})
//	task, err := m.Add(tasks.NewTask{Title: "Ship release notes", Priority: "high", Due: "2025-06-13"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	done, err := m.Complete(ctx, task.ShortID())
package tasks
