package errortypes

import (
	"strconv"
	"strings"
)

// AggregateErrors collects every problem found in one pass, for example all invalid
// configuration values, so they can be reported together.
type AggregateErrors struct {
	Message string
	Errors  []error
}

// NewAggregateErrors builds a AggregateErrors struct.
func NewAggregateErrors(msg string, errs []error) AggregateErrors {
	return AggregateErrors{
		Message: msg,
		Errors:  errs,
	}
}

func (e AggregateErrors) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Errors) == 1 {
		b.WriteString(" (1 error):\n")
	} else {
		b.WriteString(" (" + strconv.Itoa(len(e.Errors)) + " errors):\n")
	}

	for i, err := range e.Errors {
		b.WriteString("  " + strconv.Itoa(i+1) + ": " + err.Error() + "\n")
	}
	return b.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e AggregateErrors) Unwrap() []error {
	return e.Errors
}
