package warnings

import (
	"fmt"

	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/profile"
)

// CheckTemplates reports templates that match nothing and repositories
// claimed by more than one template of the same profile.
func CheckTemplates(p *profile.Profile) []Warning {
	if p == nil {
		return nil
	}
	results := make([]Warning, 0)
	claims := map[string][]string{}
	var order []string

	for _, tmpl := range p.Templates() {
		if tmpl.Repositories().Len() == 0 {
			results = append(results, Warning{
				Code:              CodeTemplateNoMatch,
				Subject:           fmt.Sprintf("profile %s: template %s", p.Name(), tmpl.Name()),
				Message:           messages.WarningsTemplateNoMatch,
				Fix:               messages.WarningsTemplateNoMatchFix,
				Source:            SourceProfile,
				Severity:          SeverityWarning,
				NoiseSuppressible: true,
			})
			continue
		}
		for _, path := range tmpl.Repositories().Names() {
			if _, ok := claims[path]; !ok {
				order = append(order, path)
			}
			claims[path] = append(claims[path], tmpl.Name())
		}
	}

	for _, path := range order {
		names := claims[path]
		if len(names) < 2 {
			continue
		}
		results = append(results, Warning{
			Code:              CodeTemplateOverlap,
			Subject:           fmt.Sprintf("profile %s: repository %s", p.Name(), path),
			Message:           fmt.Sprintf(messages.WarningsTemplateOverlapFmt, len(names)),
			Fix:               messages.WarningsTemplateOverlapFix,
			Details:           names,
			Source:            SourceProfile,
			Severity:          SeverityWarning,
			NoiseSuppressible: true,
		})
	}

	if len(results) == 0 {
		return nil
	}
	return results
}
