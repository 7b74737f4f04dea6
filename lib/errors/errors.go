package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// wrap attaches trace information (and optionally a user error) to an
// underlying error. Errors get wrapped at each level of the stack they
// traverse.
type wrap struct {
	traceFile    string
	traceLine    int
	traceMessage string

	userError *ConcreteUserError

	previous error
}

// Error returns the message of the underlying error.
func (e *wrap) Error() string {
	if err := Cause(e); err != nil && err != error(e) {
		return err.Error()
	}
	if e.userError != nil {
		return e.userError.Message
	}
	return e.traceMessage
}

func (e *wrap) setLocation(callDepth int) {
	_, file, line, _ := runtime.Caller(callDepth + 1)
	e.traceFile = file
	e.traceLine = line
}

// Newf creates a new traced error from a format string.
func Newf(
	format string,
	args ...interface{},
) error {
	err := &wrap{
		previous: fmt.Errorf(format, args...),
	}
	err.setLocation(1)
	return err
}

// Trace attaches a location to the error. It should be called each time an
// error is returned. If the error is nil, it returns nil.
func Trace(
	other error,
) error {
	if other == nil {
		return nil
	}
	err := &wrap{
		previous: other,
	}
	err.setLocation(1)
	return err
}

// Tracef attaches a location and an annotation to the error. If the error is
// nil, it returns nil.
func Tracef(
	other error,
	format string,
	args ...interface{},
) error {
	if other == nil {
		return nil
	}
	err := &wrap{
		traceMessage: fmt.Sprintf(format, args...),
		previous:     other,
	}
	err.setLocation(1)
	return err
}

// Cause returns the innermost non-wrap error, the one originally returned.
func Cause(
	err error,
) error {
	for {
		w, ok := err.(*wrap)
		if !ok {
			return err
		}
		if w.previous == nil {
			return w
		}
		err = w.previous
	}
}

// ErrorStack returns the lines of information attached to the error,
// innermost first.
func ErrorStack(
	err error,
) []string {
	lines := []string{}
	for err != nil {
		w, ok := err.(*wrap)
		if !ok {
			lines = append(lines, err.Error())
			break
		}
		line := fmt.Sprintf("%s:%d", w.traceFile, w.traceLine)
		if w.traceMessage != "" {
			line += ": " + w.traceMessage
		}
		if w.userError != nil {
			line += fmt.Sprintf(": [%d] (%s) %s",
				w.userError.Status, w.userError.Code, w.userError.Message)
		}
		lines = append(lines, line)
		err = w.previous
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

// Details returns a multi-line description of the error suitable for logging
// at top level.
func Details(
	err error,
) string {
	if err == nil {
		return "<nil>"
	}
	return strings.Join(ErrorStack(err), "\n  ")
}
