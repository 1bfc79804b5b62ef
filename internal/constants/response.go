package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldData    = "data"
)

// Response Format Functions
func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

// BuildFieldErrorResponse builds a field-scoped validation error payload.
// Keys in fields are request field names, values are human-readable reasons.
func BuildFieldErrorResponse(message string, fields map[string]string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
		ResponseFieldDetails: fields,
	}
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
