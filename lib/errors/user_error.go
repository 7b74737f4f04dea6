package errors

import "fmt"

// UserError is the interface an error must comply to in order to be
// consumable by an external client (HTTP status, stable code, message).
type UserError interface {
	error
	Status() int
	Code() string
	Message() string
	Cause() error
}

// ConcreteUserError is the materialization of a UserError for marshalling.
type ConcreteUserError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// userError is the internal UserError implementation, carrying the wrapped
// cause along with the consumable status, code and message.
type userError struct {
	wrap
}

func (e *userError) Status() int {
	return e.userError.Status
}

func (e *userError) Code() string {
	return e.userError.Code
}

func (e *userError) Message() string {
	return e.userError.Message
}

func (e *userError) Cause() error {
	if e.previous == nil {
		return nil
	}
	return Cause(e.previous)
}

// NewUserError creates a new UserError with the specified status, code and
// message, wrapping err (which may be nil).
func NewUserError(
	err error,
	status int,
	code string,
	message string,
) UserError {
	e := &userError{
		wrap{
			userError: &ConcreteUserError{
				Status:  status,
				Code:    code,
				Message: message,
			},
			previous: err,
		},
	}
	e.setLocation(1)
	return e
}

// NewUserErrorf creates a new UserError with the specified status, code and
// format string, wrapping err (which may be nil).
func NewUserErrorf(
	err error,
	status int,
	code string,
	format string,
	args ...interface{},
) UserError {
	e := &userError{
		wrap{
			userError: &ConcreteUserError{
				Status:  status,
				Code:    code,
				Message: fmt.Sprintf(format, args...),
			},
			previous: err,
		},
	}
	e.setLocation(1)
	return e
}

// ExtractUserError returns the outermost UserError attached to the error, or
// nil if the error carries none.
func ExtractUserError(
	err error,
) UserError {
	for err != nil {
		switch e := err.(type) {
		case *userError:
			return e
		case *wrap:
			err = e.previous
		default:
			return nil
		}
	}
	return nil
}

// Build constructs a ConcreteUserError from a UserError.
func Build(
	err UserError,
) *ConcreteUserError {
	return &ConcreteUserError{
		Status:  err.Status(),
		Code:    err.Code(),
		Message: err.Message(),
	}
}
