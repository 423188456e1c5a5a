package messages

// Platform client messages.
const (
	PlatformErrorFmt          = "%s: %s: %v"
	PlatformStatusErrorFmt    = "%s: %s: status %d: %v"
	PlatformRateLimitFmt      = "api rate limit exceeded (%s, remaining=%s)"
	PlatformBaseURLInvalidFmt = "invalid platform base URL %q"
	PlatformEncodeBody        = "encode request body"
	PlatformCreateRequest     = "create request"
	PlatformDecodeResponse    = "decode response"
	PlatformDecodeRepository  = "decode repository"
	PlatformUnknownRoleFmt    = "unknown role %q (allowed: %s)"
	PlatformUserNotFoundFmt   = "user %q not found"
	PlatformUnsupportedFmt    = "unsupported platform %q"
)
