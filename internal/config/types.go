package config

// Supported platform identifiers for ProfileConfig.Type.
const (
	PlatformGitHub = "github"
	PlatformGitLab = "gitlab"
)

// Config is the governance configuration: a list of profiles.
type Config struct {
	Profiles []ProfileConfig `yaml:"profiles"`
}

// ProfileConfig is one connection to a hosting platform plus its templates.
type ProfileConfig struct {
	Type      string              `yaml:"type"`
	Name      string              `yaml:"name"`
	Client    ClientConfig        `yaml:"client"`
	Templates Map[TemplateConfig] `yaml:"templates"`
}

// ClientConfig parameterizes the platform client.
type ClientConfig struct {
	Auth AuthConfig `yaml:"auth"`
	// Options are platform specific, e.g. organization or group to scan.
	Options map[string]any `yaml:"options"`
	// URL overrides the platform API base URL (self-hosted instances).
	URL string `yaml:"url"`
}

// AuthConfig holds the API token, inline or by environment variable name.
type AuthConfig struct {
	Token    string `yaml:"token"`
	TokenEnv string `yaml:"token_env"`
}

// TemplateConfig binds a repository filter to a desired target.
type TemplateConfig struct {
	Filter Map[any]     `yaml:"filter"`
	Target TargetConfig `yaml:"target"`
}

// TargetConfig is the desired attribute and collaborator state.
type TargetConfig struct {
	Attribute Map[any] `yaml:"attribute"`
	// User is nil when the template does not manage collaborators.
	User *Map[UserConfig] `yaml:"user"`
}

// UserConfig is the desired role of one collaborator.
type UserConfig struct {
	Role string `yaml:"role"`
}

// Option returns a client option as a string, or "" when absent.
func (c ClientConfig) Option(name string) string {
	s, _ := c.Options[name].(string)
	return s
}

// BoolOption returns a client option as a bool, or fallback when absent.
func (c ClientConfig) BoolOption(name string, fallback bool) bool {
	b, ok := c.Options[name].(bool)
	if !ok {
		return fallback
	}
	return b
}
