package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized      = "Unauthorized"
	MsgForbidden         = "Access forbidden"
	MsgNotFound          = "Resource not found"
	MsgBadRequest        = "Invalid request"
	MsgInternalError     = "Internal server error"
	MsgValidationFailed  = "Validation failed"
	MsgInvalidJSONFormat = "Invalid request format"
)
