package reformat

import (
	"fmt"
	"net/http"
)

// Kind classifies a blackd response.
type Kind int

const (
	KindApply Kind = iota
	KindNoChange
	KindSyntaxError
	KindInternalError
	KindUnexpectedError
)

func (k Kind) String() string {
	switch k {
	case KindApply:
		return "apply"
	case KindNoChange:
		return "no-change"
	case KindSyntaxError:
		return "syntax-error"
	case KindInternalError:
		return "internal-error"
	case KindUnexpectedError:
		return "unexpected-error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the interpreted result of one reformat call.
type Outcome struct {
	Kind       Kind
	StatusCode int
	// Body is the new source for KindApply and the diagnostic otherwise.
	Body string
}

// Interpret maps a blackd status/body pair to an Outcome.
func Interpret(statusCode int, body string) Outcome {
	o := Outcome{StatusCode: statusCode, Body: body}
	switch statusCode {
	case http.StatusOK:
		o.Kind = KindApply
	case http.StatusNoContent:
		o.Kind = KindNoChange
	case http.StatusBadRequest:
		o.Kind = KindSyntaxError
	case http.StatusInternalServerError:
		o.Kind = KindInternalError
	default:
		o.Kind = KindUnexpectedError
	}
	return o
}

// IsError reports whether the outcome is one of the failure kinds.
func (o Outcome) IsError() bool {
	switch o.Kind {
	case KindSyntaxError, KindInternalError, KindUnexpectedError:
		return true
	default:
		return false
	}
}

// Message returns the user-facing text for failure outcomes.
func (o Outcome) Message() string {
	switch o.Kind {
	case KindSyntaxError:
		return "Source code contained syntax errors."
	case KindInternalError:
		return "Internal error, please see blackd output."
	case KindUnexpectedError:
		return "Something unexpected happened:\n" + o.Body
	default:
		return ""
	}
}

// ShouldNotify reports whether the user should see this outcome. Syntax
// errors are shown only when showSyntaxErrors is set.
func (o Outcome) ShouldNotify(showSyntaxErrors bool) bool {
	switch o.Kind {
	case KindSyntaxError:
		return showSyntaxErrors
	case KindInternalError, KindUnexpectedError:
		return true
	default:
		return false
	}
}
