package messages

// Config messages for governance config loading and validation.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt   = "missing config file %s: %w"
	ConfigInvalidConfigFmt = "invalid config %s: %w"

	ConfigExpectedMappingFmt = "line %d: expected a mapping"
	ConfigDuplicateKeyFmt    = "duplicate key %q at line %d"
	ConfigTokenEnvUnsetFmt   = "environment variable %s is not set"

	ConfigProfilesRequiredFmt       = "%s: at least one profile is required"
	ConfigProfileNameRequiredFmt    = "%s: profiles[%d].name is required"
	ConfigProfileNameDuplicateFmt   = "%s: profiles[%d].name %q duplicates profiles[%d].name"
	ConfigProfileTypeInvalidFmt     = "%s.type %q is invalid (allowed: github, gitlab)"
	ConfigAuthTokenRequiredFmt      = "%s.client.auth requires exactly one of token or token_env"
	ConfigClientURLInvalidFmt       = "%s.client.url %q must be an absolute http(s) URL"
	ConfigClientOptionInvalidFmt    = "%s.client.options.%s must be a string or boolean, got %s"
	ConfigTemplatesRequiredFmt      = "%s: at least one template is required"
	ConfigTemplateNameRequiredFmt   = "%s: template names must not be empty"
	ConfigFilterPropertyRequiredFmt = "%s.filter: property names must not be empty"
	ConfigFilterValueInvalidFmt     = "%s.filter.%s must be a scalar or a list of scalars, got %s"

	ConfigTargetAttributeInvalidFmt = "%s.target.attribute.%s must be a scalar, got %s"
	ConfigTargetUsernameRequiredFmt = "%s.target.user: usernames must not be empty"
	ConfigTargetUserRoleRequiredFmt = "%s.target.user.%s.role is required"

	SettingsInvalidFmt     = "invalid settings %s: %w"
	SettingsReadFailedFmt  = "failed to read settings %s: %w"
	SettingsEnvInvalidFmt  = "invalid settings environment: %w"
	SettingsHomeFailedFmt  = "failed to resolve home directory: %w"
	SettingsConcurrencyFmt = "settings: concurrency must be greater than zero, got %d"
	SettingsRetriesFmt     = "settings: max_retries must not be negative, got %d"
	SettingsRateLimitFmt   = "settings: requests_per_second must not be negative, got %v"
)
