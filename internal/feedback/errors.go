package feedback

import (
	"errors"
	"strings"
)

// Kind classifies why a submission did not produce a Response.
type Kind int

const (
	// ValidationFailure: the payload broke the schema and was never sent.
	ValidationFailure Kind = iota + 1
	// TransportFailure: the request was sent but failed on the wire or upstream.
	TransportFailure
)

func (k Kind) String() string {
	switch k {
	case ValidationFailure:
		return "validation"
	case TransportFailure:
		return "transport"
	default:
		return "unknown"
	}
}

const (
	MsgSubmitFailed = "Failed to submit feedback"
	MsgUnexpected   = "An unexpected error occurred"
)

// Error is the displayable failure of a submission.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int      // upstream HTTP status, transport failures only
	Details    []string // individual schema violations, validation failures only
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = MsgUnexpected
	}
	if len(e.Details) == 0 {
		return msg
	}
	return msg + ": " + strings.Join(e.Details, "; ")
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func validationError(details []string) *Error {
	return &Error{Kind: ValidationFailure, Message: "invalid feedback", Details: details}
}

func transportError(err error) *Error {
	msg := ""
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	if msg == "" {
		msg = MsgUnexpected
	}
	return &Error{Kind: TransportFailure, Message: msg, Err: err}
}

func statusError(code int) *Error {
	return &Error{Kind: TransportFailure, Message: MsgSubmitFailed, StatusCode: code}
}

func kindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

func IsValidation(err error) bool { return kindOf(err) == ValidationFailure }

func IsTransport(err error) bool { return kindOf(err) == TransportFailure }
