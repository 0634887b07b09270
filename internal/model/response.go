package model

// Stable error codes surfaced in every failure body.
const (
	CodeValidationError     = "ValidationError"
	CodeAuthenticationError = "AuthenticationError"
	CodeAuthorizationError  = "AuthorizationError"
	CodeBadRequest          = "BadRequest"
	CodeNotFound            = "NotFound"
	CodeConflict            = "Conflict"
	CodeServerError         = "ServerError"
)

type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
