package warnings

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/conn-castle/steward/internal/config"
	"github.com/conn-castle/steward/internal/messages"
)

var secretLikeQueryKeys = []string{
	"token",
	"secret",
	"password",
	"passwd",
	"api_key",
	"apikey",
	"access_token",
	"access_key",
	"auth",
}

// CheckPolicy returns static policy warnings that do not require network calls.
func CheckPolicy(cfg *config.Config) []Warning {
	if cfg == nil {
		return nil
	}

	results := make([]Warning, 0)

	for _, profile := range cfg.Profiles {
		subject := "profile " + profile.Name
		if strings.TrimSpace(profile.Client.Auth.Token) != "" {
			results = append(results, Warning{
				Code:     CodePolicyInlineToken,
				Subject:  subject,
				Message:  messages.WarningsPolicyInlineToken,
				Fix:      messages.WarningsPolicyInlineTokenFix,
				Source:   SourceConfig,
				Severity: SeverityWarning,
			})
		}

		if detail, ok := findSecretInURL(profile.Client.URL); ok {
			results = append(results, Warning{
				Code:     CodePolicySecretInURL,
				Subject:  subject,
				Message:  messages.WarningsPolicySecretInURL,
				Fix:      messages.WarningsPolicySecretInURLFix,
				Details:  []string{detail},
				Source:   SourceConfig,
				Severity: SeverityCritical,
			})
		}

		if isPlainHTTP(profile.Client.URL) {
			results = append(results, Warning{
				Code:              CodePolicyInsecureURL,
				Subject:           subject,
				Message:           messages.WarningsPolicyInsecureURL,
				Fix:               messages.WarningsPolicyInsecureURLFix,
				Details:           []string{profile.Client.URL},
				Source:            SourceConfig,
				Severity:          SeverityWarning,
				NoiseSuppressible: true,
			})
		}
	}

	return dedupe(results)
}

func isPlainHTTP(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if !strings.EqualFold(parsed.Scheme, "http") {
		return false
	}
	host := parsed.Hostname()
	return host != "localhost" && host != "127.0.0.1" && host != "::1"
}

func findSecretInURL(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}
	if parsed.User != nil {
		username := strings.TrimSpace(parsed.User.Username())
		password, hasPassword := parsed.User.Password()
		if username != "" || (hasPassword && strings.TrimSpace(password) != "") {
			return messages.WarningsSecretUserinfo, true
		}
	}

	for key, values := range parsed.Query() {
		if !looksLikeSecretQueryKey(strings.ToLower(strings.TrimSpace(key))) {
			continue
		}
		for _, value := range values {
			if strings.TrimSpace(value) == "" {
				continue
			}
			return fmt.Sprintf(messages.WarningsSecretQueryParameterFmt, key), true
		}
	}

	return "", false
}

func looksLikeSecretQueryKey(key string) bool {
	for _, candidate := range secretLikeQueryKeys {
		if strings.Contains(key, candidate) {
			return true
		}
	}
	return false
}

func dedupe(items []Warning) []Warning {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]Warning, 0, len(items))
	for _, item := range items {
		key := item.Code + "|" + item.Subject + "|" + item.Message
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
