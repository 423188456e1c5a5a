package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "steward"
	// RootShort is the short description for the root command.
	RootShort = "Govern repository settings and collaborators across GitHub and GitLab"
	RootLong  = `steward reads a governance configuration of profiles and templates,
matches repositories on each platform against template filters, and plans or
applies the attribute and collaborator changes that bring them in line.`
	RootVersionFlag  = "Print version and exit"
	RootConfigFlag   = "Path to the governance configuration"
	RootProfileFlag  = "Profile to operate on (repeatable; default: all profiles)"
	RootSettingsFlag = "Path to the settings file (default ~/.config/steward/settings.toml)"
	RootEnvFileFlag  = "Dotenv file with platform tokens (default .env beside the configuration)"
	RootVerboseFlag  = "Increase log verbosity (repeatable)"
	RootQuietFlag    = "Suppress warnings"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// ValidateUse is the validate command name.
	ValidateUse   = "validate"
	ValidateShort = "Check the configuration and template filters without contacting any platform"

	// SummaryUse is the summary command name.
	SummaryUse   = "summary"
	SummaryShort = "Show repository counts per namespace and matches per template"

	// PlanUse is the plan command name.
	PlanUse          = "plan"
	PlanShort        = "Show the changes apply would make"
	PlanFlagDiff     = "Show a unified diff of actual and desired values per repository"
	PlanFlagLines    = "Maximum diff lines shown per repository"
	PlanFlagExitCode = "Exit with status 2 when changes are pending"

	// ApplyUse is the apply command name.
	ApplyUse     = "apply"
	ApplyShort   = "Apply pending changes"
	ApplyFlagYes = "Apply without asking for confirmation"
	ApplySkipped = "Skipped."

	// CompletionUse is the completion command usage.
	CompletionUse                 = "completion [bash|zsh|fish|powershell]"
	CompletionShort               = "Generate shell completion scripts"
	CompletionUnsupportedShellFmt = "unsupported shell %q (supported: bash, zsh, fish, powershell)"

	// CompletedWithWarnings is returned when a command finishes but critical warnings were reported.
	CompletedWithWarnings = "completed with critical warnings"
)
