package apperrors

// ErrorCode identifies a class of application error.
type ErrorCode string

// Common, non-domain error codes.
const (
	// System and unknown failures
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodeUnknownError         ErrorCode = "UNKNOWN_ERROR"

	// Generic business-logic codes (used by the factories)
	CodeNotFound              ErrorCode = "NOT_FOUND"
	CodeAlreadyExists         ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	CodeConflict              ErrorCode = "CONFLICT"
	CodeInvalidStatus         ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation      ErrorCode = "INVALID_OPERATION"
	CodeUnprocessableResponse ErrorCode = "UNPROCESSABLE_RESPONSE"
)
