package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/assistant/internal/scheduling"
)

var (
	configPath string
	jsonOutput bool
)

// rootCmd represents the base command for the assistant application
var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Manages a Google calendar and a local task list",
	Long: `assistant schedules events on a dedicated Google calendar and keeps a
local task list. Event attributes such as duration, color and reminder come
from learned preferences; conflicts and work-hour boundaries are checked
before anything is booked.

It can run as:
  - A standalone CLI tool
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "assistant version %s\n" .Version}}`)

	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, scheduling.ErrCancelled):
		fmt.Fprintln(os.Stderr, "Cancelled.")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/assistant/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newRescheduleCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newFreeCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newUpdatePrefsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "assistant version %s\n", version)
		},
	}
}
