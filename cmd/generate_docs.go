package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/assistant/internal/config"
	"github.com/teemow/assistant/internal/preferences"
	"github.com/teemow/assistant/internal/resources"
	"github.com/teemow/assistant/internal/scheduling"
	"github.com/teemow/assistant/internal/server"
	"github.com/teemow/assistant/internal/tasks"
)

// toolCategories orders the reference; unknown prefixes land in "Other".
var toolCategories = []struct {
	prefix string
	title  string
}{
	{"calendar", "Calendar Tools"},
	{"tasks", "Task Tools"},
}

const otherCategory = "Other"

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate a markdown reference of every MCP tool and resource the serve
command offers, read from the registered tool definitions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFile == "" || outputFile == "-" {
				return writeDocs(cmd.Context(), cmd.OutOrStdout())
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := writeDocs(cmd.Context(), f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func writeDocs(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sc, err := newDocsServerContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("assistant", version, mcpserver.WithToolCapabilities(true))
	// write tools included
	if err := registerAllTools(mcpSrv, sc, false); err != nil {
		return err
	}

	tools := make([]mcp.Tool, 0)
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}
	_, err = io.WriteString(w, generateToolsMarkdown(tools, resources.Catalog()))
	return err
}

// newDocsServerContext wires the tools to throwaway stores. No tool runs
// during doc generation, so nothing is read or written.
func newDocsServerContext(ctx context.Context) (*server.ServerContext, error) {
	svc, err := scheduling.NewService(
		scheduling.NewMemoryStore(),
		preferences.NewFileStore(os.DevNull),
		config.NewProfileStore(&config.Config{}),
		scheduling.Config{CalendarID: "primary"},
	)
	if err != nil {
		return nil, err
	}
	sc, err := server.NewServerContext(ctx, server.Dependencies{
		Scheduling: svc,
		Tasks:      tasks.NewManager(tasks.NewFileStore(os.DevNull), tasks.Options{}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return sc, nil
}

func generateToolsMarkdown(tools []mcp.Tool, res []mcp.Resource) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("Tools and resources available when running `assistant serve`. Generated from the tool definitions by `assistant generate-docs`.\n\n")
	sb.WriteString("Without `--yolo` only the read tools are registered.\n\n")

	groups := groupToolsByCategory(tools)
	titles := categoryOrder(groups)

	sb.WriteString("## Table of Contents\n\n")
	for _, title := range titles {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", title, anchor(title))
	}
	if len(res) > 0 {
		sb.WriteString("- [Resources](#resources)\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Confirmation\n\n")
	sb.WriteString("Tools never prompt. Write tools that need a decision return a report instead of acting:\n\n")
	sb.WriteString("- **conflict:** `calendar_add` overlaps existing events; repeat with `confirmed=true` to add anyway\n")
	sb.WriteString("- **ambiguous:** several events or tasks match; repeat with `eventId` (or the task id)\n")
	sb.WriteString("- **confirmation_required:** deletes and reschedules describe the change; repeat with `confirmed=true`\n\n")

	for _, title := range titles {
		group := groups[title]
		slices.SortFunc(group, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })
		fmt.Fprintf(&sb, "## %s\n\n", title)
		for _, tool := range group {
			writeToolMarkdown(&sb, tool)
		}
	}

	if len(res) > 0 {
		sb.WriteString("## Resources\n\n")
		for _, r := range res {
			fmt.Fprintf(&sb, "### %s\n\n`%s` (%s)\n\n%s\n\n", r.Name, r.URI, r.MIMEType, r.Description)
		}
	}

	return sb.String()
}

func groupToolsByCategory(tools []mcp.Tool) map[string][]mcp.Tool {
	groups := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		title := getCategoryFromToolName(tool.Name)
		groups[title] = append(groups[title], tool)
	}
	return groups
}

// categoryOrder returns the non-empty categories, known ones first.
func categoryOrder(groups map[string][]mcp.Tool) []string {
	var titles []string
	for _, c := range toolCategories {
		if len(groups[c.title]) > 0 {
			titles = append(titles, c.title)
		}
	}
	if len(groups[otherCategory]) > 0 {
		titles = append(titles, otherCategory)
	}
	return titles
}

func getCategoryFromToolName(name string) string {
	prefix, _, _ := strings.Cut(name, "_")
	for _, c := range toolCategories {
		if c.prefix == prefix {
			return c.title
		}
	}
	return otherCategory
}

func anchor(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}

func writeToolMarkdown(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return
	}
	sb.WriteString("**Arguments:**\n")
	for _, name := range slices.Sorted(maps.Keys(props)) {
		prop, ok := props[name].(map[string]interface{})
		if !ok {
			continue
		}
		need := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			need = "required"
		}
		fmt.Fprintf(sb, "- `%s` (%s, %s): ", name, propertyType(prop), need)
		if desc, ok := prop["description"].(string); ok {
			sb.WriteString(desc)
		}
		if values := enumValues(prop); len(values) > 0 {
			fmt.Fprintf(sb, " One of: `%s`.", strings.Join(values, "`, `"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func propertyType(prop map[string]interface{}) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

func enumValues(prop map[string]interface{}) []string {
	var out []string
	switch v := prop["enum"].(type) {
	case []string:
		out = v
	case []interface{}:
		for _, e := range v {
			out = append(out, fmt.Sprint(e))
		}
	}
	return out
}
