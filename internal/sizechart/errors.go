package sizechart

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookups of groups, clusters or properties that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest marks input the service cannot act on.
	ErrBadRequest = errors.New("bad request")
)

const (
	MsgGroupUnavailable = "Data not available for this gender and body shape index."
	MsgInvalidCluster   = "Invalid cluster label."
	MsgInvalidProperty  = "Invalid property name."
	MsgInvalidSize      = "Invalid size value provided."
	MsgInvalidHeight    = "Invalid height input format. Use format like 5'7."
	MsgUpdated          = "Confidence scores updated successfully."
)

// Error carries the message shown to API clients and the sentinel it maps to.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(detail string) error {
	return &Error{Kind: ErrNotFound, Detail: detail}
}

func badRequest(format string, args ...any) error {
	return &Error{Kind: ErrBadRequest, Detail: fmt.Sprintf(format, args...)}
}

// Detail returns the client-facing message of err.
func Detail(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
