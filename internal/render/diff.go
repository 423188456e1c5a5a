package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/fatih/color"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/plan"
	"github.com/conn-castle/steward/internal/value"
)

// DefaultDiffMaxLines is the default maximum number of diff lines shown per repository.
const DefaultDiffMaxLines = 40

// Diff writes one unified diff per repository comparing the actual and
// desired values of every pending change.
func Diff(out io.Writer, pl *plan.Plan, maxLines int) {
	for _, step := range pl.Steps() {
		actual, desired := stepDocuments(step)
		rendered, _ := truncatedUnifiedDiff(
			fmt.Sprintf(messages.RenderDiffActualFmt, step.Repository.Path()),
			fmt.Sprintf(messages.RenderDiffDesiredFmt, step.Repository.Path()),
			actual,
			desired,
			maxLines,
		)
		writeColoredDiff(out, rendered)
	}
}

// stepDocuments renders the before and after state of a step as "key: value"
// lines, attributes first, then users.
func stepDocuments(step plan.Step) (string, string) {
	var actual, desired strings.Builder
	for _, ch := range step.Changes {
		switch c := ch.(type) {
		case *change.AttributeUpdate:
			fmt.Fprintf(&actual, "%s: %s\n", c.Name(), value.String(c.Actual()))
			fmt.Fprintf(&desired, "%s: %s\n", c.Name(), value.String(c.Expected()))
		}
	}
	for _, ch := range step.Changes {
		switch c := ch.(type) {
		case *change.Create:
			fmt.Fprintf(&desired, "user %s: %s\n", c.Name(), role(c.Resource()))
		case *change.Update:
			fmt.Fprintf(&actual, "user %s: %s\n", c.Name(), role(c.Previous()))
			fmt.Fprintf(&desired, "user %s: %s\n", c.Name(), role(c.Resource()))
		case *change.Delete:
			fmt.Fprintf(&actual, "user %s: %s\n", c.Name(), role(c.Resource()))
		}
	}
	return actual.String(), desired.String()
}

func truncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := maxLines
	if limit <= 0 {
		limit = DefaultDiffMaxLines
	}
	lines := splitDiffLines(udiff.Unified(fromName, toName, fromContent, toContent))
	if len(lines) <= limit {
		return joinLines(lines), false
	}
	truncated := append(lines[:limit:limit], fmt.Sprintf(messages.RenderDiffTruncatedFmt, limit, messages.RenderDiffLinesFlagName))
	return joinLines(truncated), true
}

func writeColoredDiff(out io.Writer, diff string) {
	for _, line := range splitDiffLines(diff) {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, _ = fmt.Fprintln(out, color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "+"):
			_, _ = fmt.Fprintln(out, color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			_, _ = fmt.Fprintln(out, color.RedString("%s", line))
		case strings.HasPrefix(line, "@@"):
			_, _ = fmt.Fprintln(out, color.CyanString("%s", line))
		default:
			_, _ = fmt.Fprintln(out, line)
		}
	}
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
