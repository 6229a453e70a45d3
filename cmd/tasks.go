package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/assistant/internal/tasks"
	"github.com/teemow/assistant/internal/timeexpr"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the local task list",
		Long: `Manage a local task list. Tasks have a priority (high, medium, low), an
optional category and an optional due date. Commands that take a task accept
an id prefix or part of the title.`,
	}

	cmd.AddCommand(newTasksAddCmd())
	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksTodayCmd())
	cmd.AddCommand(newTasksWeekCmd())
	cmd.AddCommand(newTasksOverdueCmd())
	cmd.AddCommand(newTasksCompleteCmd())
	cmd.AddCommand(newTasksDeleteCmd())
	cmd.AddCommand(newTasksCategoryCmd())
	cmd.AddCommand(newTasksSummaryCmd())

	return cmd
}

// runTasks hands fn a Manager that asks on the terminal.
func runTasks(cmd *cobra.Command, fn func(ctx context.Context, m *tasks.Manager) error) error {
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return fn(ctx, a.taskManager(a.prompt(cmd)))
	})
}

func newTasksAddCmd() *cobra.Command {
	var nt tasks.NewTask

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nt.Title = args[0]
			return runTasks(cmd, func(_ context.Context, m *tasks.Manager) error {
				due, err := resolveDue(nt.Due, m.Today())
				if err != nil {
					return err
				}
				nt.Due = due
				task, err := m.Add(nt)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), task)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", taskLine(task))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&nt.Priority, "priority", "p", string(tasks.PriorityMedium), "Priority: high, medium or low")
	cmd.Flags().StringVarP(&nt.Category, "category", "c", "", "Category")
	cmd.Flags().StringVarP(&nt.Due, "due", "d", "", "Due date, YYYY-MM-DD or e.g. \"next friday\"")
	cmd.Flags().StringVarP(&nt.Notes, "notes", "n", "", "Notes")

	return cmd
}

// resolveDue accepts YYYY-MM-DD or a date phrase and returns YYYY-MM-DD.
func resolveDue(text string, today time.Time) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if _, err := time.Parse(tasks.DateLayout, text); err == nil {
		return text, nil
	}
	t, err := timeexpr.NewResolver(timeexpr.NewWhenFallback()).Resolve(text, today, today.Location())
	if err != nil {
		return "", err
	}
	return t.Format(tasks.DateLayout), nil
}

func newTasksListCmd() *cobra.Command {
	var (
		completed bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending tasks by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, func(_ context.Context, m *tasks.Manager) error {
				var (
					list []tasks.Task
					err  error
				)
				if completed {
					list, err = m.Completed(limit)
				} else {
					list, err = m.Pending()
				}
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), nonNil(list))
				}
				writeTasks(cmd.OutOrStdout(), list, m.Today(), "No pending tasks.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "Show completed tasks instead")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum completed tasks to show")

	return cmd
}

func newTasksTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Tasks due today and undated high-priority tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, func(_ context.Context, m *tasks.Manager) error {
				due, urgent, err := m.TodayTasks()
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), map[string][]tasks.Task{
						"due_today":     nonNil(due),
						"high_priority": nonNil(urgent),
					})
				}
				out := cmd.OutOrStdout()
				today := m.Today()
				fmt.Fprintln(out, "Due today:")
				writeTasks(out, due, today, "  nothing due today")
				if len(urgent) > 0 {
					fmt.Fprintln(out, "\nHigh priority, no due date:")
					writeTasks(out, urgent, today, "")
				}
				return nil
			})
		},
	}
}

func newTasksWeekCmd() *cobra.Command {
	return taskQueryCmd("week", "Tasks due within the next 7 days", "Nothing due this week.",
		func(m *tasks.Manager) ([]tasks.Task, error) { return m.Week() })
}

func newTasksOverdueCmd() *cobra.Command {
	return taskQueryCmd("overdue", "Pending tasks past their due date", "Nothing overdue.",
		func(m *tasks.Manager) ([]tasks.Task, error) { return m.Overdue() })
}

func taskQueryCmd(use, short, empty string, query func(m *tasks.Manager) ([]tasks.Task, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, func(_ context.Context, m *tasks.Manager) error {
				list, err := query(m)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), nonNil(list))
				}
				writeTasks(cmd.OutOrStdout(), list, m.Today(), empty)
				return nil
			})
		},
	}
}

func newTasksCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete QUERY",
		Short: "Mark a pending task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, func(ctx context.Context, m *tasks.Manager) error {
				task, err := m.Complete(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), task)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s\n", task.Title)
				return nil
			})
		},
	}
}

func newTasksDeleteCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete QUERY",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, func(ctx context.Context, m *tasks.Manager) error {
				task, err := m.Delete(ctx, args[0], assumeYes)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), task)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", task.Title)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation")

	return cmd
}

func newTasksCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category [NAME]",
		Short: "Pending tasks grouped by category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return runTasks(cmd, func(_ context.Context, m *tasks.Manager) error {
				groups, err := m.ByCategory(filter)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), groups)
				}
				out := cmd.OutOrStdout()
				if len(groups) == 0 {
					fmt.Fprintln(out, "No pending tasks.")
					return nil
				}
				for i, g := range groups {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "%s (%d):\n", g.Category, len(g.Tasks))
					writeTasks(out, g.Tasks, m.Today(), "")
				}
				return nil
			})
		},
	}
}

func newTasksSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "One-line count of pending, overdue and due tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, func(_ context.Context, m *tasks.Manager) error {
				sum, err := m.Summary()
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), sum)
				}
				fmt.Fprintln(cmd.OutOrStdout(), sum)
				return nil
			})
		},
	}
}

func writeTasks(w io.Writer, list []tasks.Task, today time.Time, empty string) {
	if len(list) == 0 {
		if empty != "" {
			fmt.Fprintln(w, empty)
		}
		return
	}
	for _, t := range list {
		fmt.Fprintf(w, "  %s%s\n", taskLine(t), dueNote(t, today))
	}
}

var priorityMarks = map[tasks.Priority]string{
	tasks.PriorityHigh:   "!!",
	tasks.PriorityMedium: "! ",
	tasks.PriorityLow:    "  ",
}

// taskLine renders one task: short id, priority mark, title, category.
func taskLine(t tasks.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %s", t.ShortID(), priorityMarks[t.Priority], t.Title)
	if t.Category != "" {
		fmt.Fprintf(&sb, " #%s", t.Category)
	}
	if t.Completed {
		sb.WriteString(" (done)")
	}
	return sb.String()
}

func dueNote(t tasks.Task, today time.Time) string {
	days, ok := t.DaysUntilDue(today)
	if !ok || t.Completed {
		return ""
	}
	switch {
	case days < 0:
		return fmt.Sprintf("  (overdue %dd)", -days)
	case days == 0:
		return "  (due today)"
	case days == 1:
		return "  (due tomorrow)"
	default:
		return fmt.Sprintf("  (due %s)", t.DueDate)
	}
}

func nonNil(list []tasks.Task) []tasks.Task {
	if list == nil {
		return []tasks.Task{}
	}
	return list
}
