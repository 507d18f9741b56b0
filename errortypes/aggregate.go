package errortypes

import (
	"errors"
	"strconv"
	"strings"
)

// AggregateErrors collects the failures of several networks, e.g. from a host-wide
// initialization. errors.As and errors.Is see every collected error.
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

// Error lists every collected error, tagged with its severity when it carries one.
func (e AggregateErrors) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(e.Message)
	b.WriteString(" (")
	b.WriteString(strconv.Itoa(len(e.Errors)))
	if len(e.Errors) == 1 {
		b.WriteString(" error):\n")
	} else {
		b.WriteString(" errors):\n")
	}

	for i, err := range e.Errors {
		b.WriteString("  ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		if label := severityLabel(err); label != "" {
			b.WriteString("[")
			b.WriteString(label)
			b.WriteString("] ")
		}
		b.WriteString(err.Error())
		b.WriteString("\n")
	}

	return b.String()
}

func (e AggregateErrors) Unwrap() []error {
	return e.Errors
}

// ContainsFatal reports whether any collected error excludes its network from the session.
func (e AggregateErrors) ContainsFatal() bool {
	return ContainsFatalError(e.Errors)
}

func severityLabel(err error) string {
	var coder Coder
	if !errors.As(err, &coder) {
		return ""
	}
	switch coder.Severity() {
	case SeverityFatal:
		return "fatal"
	case SeverityWarning:
		return "warning"
	}
	return ""
}
