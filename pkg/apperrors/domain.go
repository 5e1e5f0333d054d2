package apperrors

import (
	"net/http"
)

/*
Factories and predefined values for the domain errors of the evaluation
pipeline: analysis, matching, notification, reminder.
*/

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists maps duplicate inserts to a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory (409).
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation builds a 400 for operations the current state forbids.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus builds a 400 for illegal status transitions.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrUpstreamService wraps a classification/email provider failure (502).
// The unit of work is eligible for a later retry.
func ErrUpstreamService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusBadGateway)
}

// ErrUnprocessableResponse wraps a provider response that could not be
// parsed into the required structure. Fatal for the current attempt.
func ErrUnprocessableResponse(err error, domain string) *AppError {
	return Wrap(err, CodeUnprocessableResponse, domain, "Provider returned an unparsable response", http.StatusBadGateway)
}

// ErrPersistence wraps a store write failure (500). No partial state is
// assumed consistent; the caller should re-invoke.
func ErrPersistence(err error, domain string) *AppError {
	return Wrap(err, CodeDatabaseError, domain, "Storage operation failed", http.StatusInternalServerError)
}
