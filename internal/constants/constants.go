package constants

// Context keys set by the auth middleware.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Validation minimums enforced before any persistence call.
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	MinNameLength     = 2
	MinTitleLength    = 2
)
