package protocol

import "errors"

// RemoteError is a failure reported by the target process.
type RemoteError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Retryable bool        `json:"retryable"`
}

func (e *RemoteError) Error() string {
	return e.Code + ": " + e.Message
}

// NewRemoteError creates a new RemoteError.
func NewRemoteError(code, message string) *RemoteError {
	return &RemoteError{Code: code, Message: message}
}

// IsCode reports whether err is, or wraps, a RemoteError with the given code.
func IsCode(err error, code string) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Code == code
}
