package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserID        = "user_id"
	KeyUsername      = "username"
	KeyFromProtected = "from_protected"

	// KeyTenantID carries the tenant resolved from ChatVolt credentials.
	KeyTenantID = "chatvolt_tenant_id"
)
