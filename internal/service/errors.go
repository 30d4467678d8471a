package service

// ValidationError is a client-input failure. Transport maps it to a 400
// with the message as-is; everything else surfaces as a generic 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}
