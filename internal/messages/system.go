package messages

// Messages for config discovery and dotenv loading.
const (
	// RootStartPathRequired indicates start path is required for config discovery.
	RootStartPathRequired = "start path is required"
	RootResolvePathFmt    = "resolve path %s: %w"
	RootPathNotFileFmt    = "%s exists but is not a file"
	RootCheckPathFmt      = "check %s: %w"

	// EnvfileParseFailedFmt formats dotenv syntax errors.
	EnvfileParseFailedFmt = "parse env content: %w"
	EnvfileReadFailedFmt  = "read env file %s: %w"
	EnvfileInFileFmt      = "env file %s: %w"
)
