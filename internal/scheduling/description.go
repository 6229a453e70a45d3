package scheduling

import (
	"fmt"
	"strings"
	"time"
)

const footerRule = "────────────────────────────────────────────"

// buildDescription appends the provenance footer to the user's text.
func buildDescription(userText, workDir, sessionID string, added time.Time) string {
	var lines []string
	if strings.TrimSpace(userText) != "" {
		lines = append(lines, strings.TrimRight(userText, " \t\r\n"))
	}
	lines = append(lines, "", footerRule)
	if workDir != "" {
		lines = append(lines, "Directory: "+workDir)
	}
	if sessionID != "" {
		lines = append(lines, "Session: "+sessionID)
	}
	lines = append(lines, fmt.Sprintf("Added: %s", added.UTC().Format("2006-01-02 15:04 UTC")))
	return strings.Join(lines, "\n")
}

// Summary returns the first non-empty description line above the footer,
// truncated to max runes.
func Summary(description string, max int) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "─") {
			break
		}
		if line == "" {
			continue
		}
		r := []rune(line)
		if len(r) > max {
			return string(r[:max])
		}
		return line
	}
	return ""
}
