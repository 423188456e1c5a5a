package messages

// Model messages for resources, repositories, filters, and changes.
const (
	ResourceNotFoundFmt = "resource %q not found"

	RepositoryDecodeAttributesFmt = "decode repository attributes: %w"
	RepositoryUnknownPropertyFmt  = "Property %q does not exist"

	// DidYouMeanFmt is appended to unknown-name errors when close candidates exist.
	DidYouMeanFmt = ". Did you mean %s?"

	FilterSyntaxErrorFmt         = "invalid expression %q at offset %d: %s"
	FilterUnexpectedTokenFmt     = "unexpected token %q"
	FilterUnexpectedCharFmt      = "unexpected character %q"
	FilterUnexpectedEnd          = "unexpected end of expression"
	FilterUnterminatedString     = "unterminated string literal"
	FilterInvalidNumberFmt       = "invalid number %q"
	FilterExpectedFmt            = "expected %s"
	FilterUnknownIdentFmt        = "unknown identifier %q (allowed: repository, property, match, true, false, null)"
	FilterMatchArityFmt          = "match() takes 1 or 2 arguments, got %d"
	FilterMatchPatternTypeFmt    = "match() pattern must be a string, got %s"
	FilterMatchPatternInvalidFmt = "match() pattern %q is invalid: %w"
	FilterNonBoolResultFmt       = "expression %q must evaluate to a boolean, got %s"
	FilterNonBoolOperandFmt      = "logical operand must be a boolean, got %s"
	FilterExpressionPropertyFmt  = "filter %q expression: %w"
	FilterCriterionFmt           = "repository %s: filter %q: %w"

	ChangeAttributeUnknownFmt         = "Attribute %q does not exist"
	ChangeAttributeReadOnlyFmt        = "Attribute %q is read-only."
	ChangeAttributeUnsupportedTypeFmt = "Attribute %q holds a %s value; only scalar values can be compared"
	ChangeExpectedScalarFmt           = "target attribute %q must be a bool, int, string, or null, got %s"

	TemplateMatchFmt = "template %q: %w"
	TemplateDiffFmt  = "template %q: repository %s: %w"

	PlanApplyFailedFmt = "apply %s on %s failed after %d applied change(s): %v"

	ProfileFilterFmt        = "profile %q: template %q: %w"
	ProfileFetchFmt         = "profile %q: fetch repositories: %w"
	ProfileTemplateFmt      = "profile %q: %w"
	ProfileNotConfiguredFmt = "profile %q is not configured"
)
