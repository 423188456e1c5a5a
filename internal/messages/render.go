package messages

// Plan, summary, and apply output.
const (
	RenderPlanHeaderFmt      = "Profile %s: %d change(s) in %d repositor(ies)"
	RenderPlanNothingFmt     = "Profile %s: nothing to do, every matched repository is up to date."
	RenderRepositoryFmt      = "  %s"
	RenderAttributeUpdateFmt = "    ~ %s: %s -> %s"
	RenderUserCreateFmt      = "    + user %s (%s)"
	RenderUserUpdateFmt      = "    ~ user %s: %s -> %s"
	RenderUserDeleteFmt      = "    - user %s (%s)"
	RenderChangeFmt          = "    ? %s"
	RenderAppliedFmt         = "  applied %s on %s"
	RenderApplyDoneFmt       = "Profile %s: applied %d change(s)."
	RenderDiffActualFmt      = "%s (actual)"
	RenderDiffDesiredFmt     = "%s (desired)"
	RenderDiffTruncatedFmt   = "... (truncated to %d lines; rerun with %s <n> to see more)"

	RenderSummaryHeaderFmt    = "Profile %s (%s): %d repositor(ies)"
	RenderSummaryNamespaces   = "  Namespace\tRepositories"
	RenderSummaryTemplates    = "  Template\tMatched"
	RenderSummaryRowFmt       = "  %s\t%d"
	RenderWarningsHeaderFmt   = "%d warning(s):"
	RenderValidConfigFmt      = "%s: %d profile(s), %d template(s) valid."
	RenderDiffLinesFlagName   = "--diff-lines"
	RenderUnknownRoleLabel    = "unknown role"
	RenderNoRepositoriesLabel = "(none)"
)
