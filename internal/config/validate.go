package config

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/value"
)

var validPlatforms = map[string]struct{}{
	PlatformGitHub: {},
	PlatformGitLab: {},
}

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf(messages.ConfigProfilesRequiredFmt, path)
	}

	seenNames := make(map[string]int, len(c.Profiles))
	for i, profile := range c.Profiles {
		name := normalizeName(profile.Name)
		if name == "" {
			return fmt.Errorf(messages.ConfigProfileNameRequiredFmt, path, i)
		}
		if firstIndex, ok := seenNames[name]; ok {
			return fmt.Errorf(messages.ConfigProfileNameDuplicateFmt, path, i, profile.Name, firstIndex)
		}
		seenNames[name] = i

		if err := profile.validate(fmt.Sprintf("%s: profiles[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (p ProfileConfig) validate(prefix string) error {
	if _, ok := validPlatforms[p.Type]; !ok {
		return fmt.Errorf(messages.ConfigProfileTypeInvalidFmt, prefix, p.Type)
	}
	if err := p.Client.validate(prefix); err != nil {
		return err
	}
	if p.Templates.Len() == 0 {
		return fmt.Errorf(messages.ConfigTemplatesRequiredFmt, prefix)
	}
	for name, tmpl := range p.Templates.All() {
		if normalizeName(name) == "" {
			return fmt.Errorf(messages.ConfigTemplateNameRequiredFmt, prefix)
		}
		if err := tmpl.validate(fmt.Sprintf("%s.templates.%s", prefix, name)); err != nil {
			return err
		}
	}
	return nil
}

func (c ClientConfig) validate(prefix string) error {
	hasToken := c.Auth.Token != ""
	hasTokenEnv := strings.TrimSpace(c.Auth.TokenEnv) != ""
	if hasToken == hasTokenEnv {
		return fmt.Errorf(messages.ConfigAuthTokenRequiredFmt, prefix)
	}
	if c.URL != "" {
		parsed, err := url.Parse(c.URL)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "https" && parsed.Scheme != "http") {
			return fmt.Errorf(messages.ConfigClientURLInvalidFmt, prefix, c.URL)
		}
	}
	for key, option := range c.Options {
		switch option.(type) {
		case bool, string:
		default:
			return fmt.Errorf(messages.ConfigClientOptionInvalidFmt, prefix, key, value.TypeName(option))
		}
	}
	return nil
}

func (t TemplateConfig) validate(prefix string) error {
	for property, filterValue := range t.Filter.All() {
		if strings.TrimSpace(property) == "" {
			return fmt.Errorf(messages.ConfigFilterPropertyRequiredFmt, prefix)
		}
		if list, ok := value.AsList(filterValue); ok {
			for _, item := range list {
				if !value.IsScalar(item) {
					return fmt.Errorf(messages.ConfigFilterValueInvalidFmt, prefix, property, value.TypeName(item))
				}
			}
			continue
		}
		if !value.IsScalar(filterValue) {
			return fmt.Errorf(messages.ConfigFilterValueInvalidFmt, prefix, property, value.TypeName(filterValue))
		}
	}

	for name, attr := range t.Target.Attribute.All() {
		if !value.IsScalar(attr) {
			return fmt.Errorf(messages.ConfigTargetAttributeInvalidFmt, prefix, name, value.TypeName(attr))
		}
	}

	if t.Target.User != nil {
		for username, user := range t.Target.User.All() {
			if strings.TrimSpace(username) == "" {
				return fmt.Errorf(messages.ConfigTargetUsernameRequiredFmt, prefix)
			}
			if strings.TrimSpace(user.Role) == "" {
				return fmt.Errorf(messages.ConfigTargetUserRoleRequiredFmt, prefix, username)
			}
		}
	}
	return nil
}

// normalizeName folds compatibility forms and trims whitespace so visually
// identical profile names compare equal.
func normalizeName(value string) string {
	return strings.TrimSpace(norm.NFKC.String(value))
}
