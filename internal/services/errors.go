package services

import "github.com/pkg/errors"

var (
	ErrLoginTaken         = errors.New("a user with this login already exists")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrProtectedUser      = errors.New("admin accounts cannot be deleted")
	ErrTaskNotAssigned    = errors.New("task is not assigned to this user")
	ErrWrongTaskKind      = errors.New("operation does not match the task kind")
	ErrQuantityOutOfRange = errors.New("quantity must be greater than 0 and at most the daily target")
)

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a recoverable input failure reported back to the caller.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
