// Package render writes plans, summaries, and warnings for terminal output.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/conn-castle/steward/internal/change"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/plan"
	"github.com/conn-castle/steward/internal/profile"
	"github.com/conn-castle/steward/internal/repository"
	"github.com/conn-castle/steward/internal/value"
	"github.com/conn-castle/steward/internal/warnings"
)

// Plan writes the pending changes of pl grouped by repository.
func Plan(out io.Writer, pl *plan.Plan) {
	steps := pl.Steps()
	if len(steps) == 0 {
		_, _ = fmt.Fprintln(out, color.GreenString(messages.RenderPlanNothingFmt, pl.Profile()))
		return
	}
	total := 0
	for _, step := range steps {
		total += len(step.Changes)
	}
	_, _ = fmt.Fprintln(out, color.New(color.Bold).Sprintf(messages.RenderPlanHeaderFmt, pl.Profile(), total, len(steps)))
	for _, step := range steps {
		_, _ = fmt.Fprintf(out, messages.RenderRepositoryFmt+"\n", step.Repository.Path())
		for _, ch := range step.Changes {
			_, _ = fmt.Fprintln(out, Change(ch))
		}
	}
}

// Change formats one leaf change as a single colored line.
func Change(ch change.Change) string {
	switch c := ch.(type) {
	case *change.AttributeUpdate:
		return color.YellowString(messages.RenderAttributeUpdateFmt, c.Name(), value.String(c.Actual()), value.String(c.Expected()))
	case *change.Create:
		return color.GreenString(messages.RenderUserCreateFmt, c.Name(), role(c.Resource()))
	case *change.Update:
		return color.YellowString(messages.RenderUserUpdateFmt, c.Name(), role(c.Previous()), role(c.Resource()))
	case *change.Delete:
		return color.RedString(messages.RenderUserDeleteFmt, c.Name(), role(c.Resource()))
	default:
		return fmt.Sprintf(messages.RenderChangeFmt, ch.Name())
	}
}

func role(r any) string {
	if u, ok := r.(repository.User); ok {
		return u.Role
	}
	return messages.RenderUnknownRoleLabel
}

// Applied writes the line printed after a change is applied.
func Applied(out io.Writer, repo *repository.Repository, ch change.Change) {
	_, _ = fmt.Fprintln(out, color.GreenString(messages.RenderAppliedFmt, ch.Name(), repo.Path()))
}

// ApplyDone writes the closing line of a successful apply.
func ApplyDone(out io.Writer, profileName string, applied int) {
	_, _ = fmt.Fprintln(out, color.GreenString(messages.RenderApplyDoneFmt, profileName, applied))
}

// Summary writes repository counts per namespace and matches per template.
func Summary(out io.Writer, s profile.Summary) {
	_, _ = fmt.Fprintln(out, color.New(color.Bold).Sprintf(messages.RenderSummaryHeaderFmt, s.Profile, s.Platform, s.Repositories))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, messages.RenderSummaryNamespaces)
	if len(s.Namespaces) == 0 {
		_, _ = fmt.Fprintln(tw, "  "+messages.RenderNoRepositoriesLabel)
	}
	for _, ns := range s.Namespaces {
		_, _ = fmt.Fprintf(tw, messages.RenderSummaryRowFmt+"\n", ns.Namespace, ns.Repositories)
	}
	_, _ = fmt.Fprintln(tw, "")
	_, _ = fmt.Fprintln(tw, messages.RenderSummaryTemplates)
	for _, tc := range s.Templates {
		_, _ = fmt.Fprintf(tw, messages.RenderSummaryRowFmt+"\n", tc.Template, tc.Repositories)
	}
	_ = tw.Flush()
}

// Warnings writes items, critical ones in red.
func Warnings(out io.Writer, items []warnings.Warning) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, color.YellowString(messages.RenderWarningsHeaderFmt, len(items)))
	for _, w := range items {
		text := strings.TrimRight(w.String(), "\n")
		if w.Critical() {
			_, _ = fmt.Fprintln(out, color.RedString("%s", text))
			continue
		}
		_, _ = fmt.Fprintln(out, color.YellowString("%s", text))
	}
}
