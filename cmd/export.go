package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/assistant/internal/ics"
	"github.com/teemow/assistant/internal/scheduling"
)

// exportMaxEvents caps how many events one export fetches.
const exportMaxEvents = 2500

func newExportCmd() *cobra.Command {
	var (
		req    = scheduling.ListRequest{MaxResults: exportMaxEvents}
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as an iCalendar file",
		Long: `Export the events of the assistant calendar around now as an
iCalendar (.ics) document that other calendar apps can import.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				svc, err := a.schedulingService(ctx, nil)
				if err != nil {
					return err
				}
				res, err := svc.List(ctx, req)
				if err != nil {
					return err
				}
				opts := ics.Options{Name: a.cfg.CalendarName, TimeZone: svc.TimeZone()}

				if output == "" || output == "-" {
					return exportTo(cmd.OutOrStdout(), res.Events, opts)
				}
				if err := writeICSFile(output, res.Events, opts); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d event(s) to %s\n", len(res.Events), output)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&req.DaysBack, "days-back", 30, "Days in the past to export")
	cmd.Flags().IntVar(&req.DaysAhead, "days-ahead", 90, "Days ahead to export")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func writeICSFile(path string, events []scheduling.Event, opts ics.Options) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write %s: %w", path, cerr)
		}
	}()
	return exportTo(f, events, opts)
}

func exportTo(w io.Writer, events []scheduling.Event, opts ics.Options) error {
	if err := ics.Export(w, events, opts); err != nil {
		return fmt.Errorf("failed to export events: %w", err)
	}
	return nil
}
