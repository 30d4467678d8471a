package transport

import (
	"errors"

	"shopdesk/internal/service"
)

// asValidationError unwraps client-input failures raised by the services.
func asValidationError(err error) (*service.ValidationError, bool) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
