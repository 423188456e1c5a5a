package messages

// Warning messages and suggested fixes.
const (
	WarningsPolicyInlineToken       = "API token is written inline in the configuration"
	WarningsPolicyInlineTokenFix    = "Use client.auth.token_env and export the token in the environment."
	WarningsPolicySecretInURL       = "client URL appears to contain a literal secret-like value"
	WarningsPolicySecretInURLFix    = "Move credentials out of the URL and into client.auth."
	WarningsPolicyInsecureURL       = "client URL uses plain http; the API token is sent unencrypted"
	WarningsPolicyInsecureURLFix    = "Use an https:// endpoint."
	WarningsTemplateNoMatch         = "template matches no repository"
	WarningsTemplateNoMatchFix      = "Check the filter values against 'steward summary', or remove the template."
	WarningsTemplateOverlapFmt      = "repository is matched by %d templates; for shared attributes the last one wins"
	WarningsTemplateOverlapFix      = "Narrow the filters so each repository is governed by one template per attribute."
	WarningsNoiseModeInvalidFmt     = "unknown warnings noise mode %q; expected one of: %s"
	WarningsNoiseModeInvalidFix     = "Set warnings.noise_mode to default, reduce, or quiet in the settings file."
	WarningsSecretQueryParameterFmt = "query parameter %q contains a literal secret-like value"
	WarningsSecretUserinfo          = "URL contains inline userinfo credentials"
)
