package messages

// Interactive confirmation.
const (
	PromptRequiresTerminal = "confirmation requires an interactive terminal; rerun with --yes to apply without prompting"
	PromptCancelled        = "cancelled"
	PromptAffirmative      = "Apply"
	PromptNegative         = "Cancel"
	PromptApplyTitleFmt    = "Apply %d change(s) to profile %s?"
	PromptApplyDescription = "Changes are submitted one at a time and are not rolled back on failure."
)
