package client

import (
	"fmt"
	"net/http"
)

const (
	CodeMissingAPIKey   = "MISSING_API_KEY"
	CodeInvalidAPIKey   = "INVALID_API_KEY"
	CodeMissingField    = "MISSING_FIELD"
	CodeInvalidClientID = "INVALID_CLIENT_ID"
	CodeInvalidAction   = "INVALID_ACTION"
)

// APIError отдаётся клиенту как конверт с кодом ошибки.
type APIError struct {
	Status   int
	Code     string
	Message  string
	Data     interface{}
	Criteria interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

func errMissingAPIKey() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    CodeMissingAPIKey,
		Message: "API key is required. Provide it as 'Authorization: Bearer <key>' or the api_key query parameter",
	}
}

func errInvalidAPIKey() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Code:    CodeInvalidAPIKey,
		Message: "Invalid API key",
	}
}

func errMissingField(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeMissingField,
		Message: "Missing required field: " + field,
		Data:    map[string]string{"field": field},
	}
}

func errInvalidAction(action string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidAction,
		Message: fmt.Sprintf("Invalid action %q. Supported actions: info, create, update, delete", action),
	}
}
