package tools

// Result is the uniform payload every tool returns to the model. Failures
// are carried in Error rather than a Go error so the model can read and
// react to them; the conversation turn always continues.
type Result struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *Error         `json:"error,omitempty"`
}

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error is a structured tool failure for model consumption.
type Error struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeValidation = "validation_error"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeUpstream   = "upstream_error"
	ErrCodeInternal   = "internal_error"
)

// FieldError is the validation failure produced by input Validate methods.
// It always names the offending field.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// fieldErr builds a FieldError.
func fieldErr(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// validationResult converts a FieldError into an error Result. The
// underlying action must never run after this.
func validationResult(err *FieldError) Result {
	return Result{
		Status:  StatusError,
		Message: "Invalid tool input",
		Error: &Error{
			Code:    ErrCodeValidation,
			Field:   err.Field,
			Message: err.Message,
		},
	}
}

// errorResult builds an error Result with the given code.
func errorResult(code, message string) Result {
	return Result{
		Status:  StatusError,
		Message: message,
		Error:   &Error{Code: code, Message: message},
	}
}

// successResult builds a success Result.
func successResult(message string, data map[string]any) Result {
	return Result{Status: StatusSuccess, Message: message, Data: data}
}
