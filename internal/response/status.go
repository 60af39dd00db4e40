package response

import (
	"bytes"
	"net/http"

	"go.uber.org/atomic"

	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
	"gitlab.com/gitlab-org/artifact-gateway/internal/httperrors"
)

// Status is a response with a fixed status code, headers and body. It is
// delivered synchronously within Send.
type Status struct {
	code   int
	header http.Header
	body   []byte
	sent   *atomic.Bool
}

// NewStatus returns a response with code and an empty body
func NewStatus(code int) *Status {
	return &Status{
		code:   code,
		header: http.Header{},
		sent:   atomic.NewBool(false),
	}
}

// NewErrorPage returns a response with code and, when one exists, the
// predefined HTML error page for it
func NewErrorPage(code int) *Status {
	s := NewStatus(code)

	if header, body, ok := httperrors.Page(code); ok {
		s.header = header
		s.body = body
	}

	return s
}

// OK is the 200 response
func OK() *Status {
	return NewStatus(http.StatusOK)
}

// BadRequest is the 400 response
func BadRequest() *Status {
	return NewErrorPage(http.StatusBadRequest)
}

// NotFound is the 404 response
func NotFound() *Status {
	return NewErrorPage(http.StatusNotFound)
}

// InternalServerError is the 500 response
func InternalServerError() *Status {
	return NewErrorPage(http.StatusInternalServerError)
}

// GatewayTimeout is the 504 response
func GatewayTimeout() *Status {
	return NewErrorPage(http.StatusGatewayTimeout)
}

// Code returns the status code
func (s *Status) Code() int {
	return s.code
}

// Send writes the response to sink. A second call fails with ErrAlreadySent.
func (s *Status) Send(sink Sink) *future.Future[error] {
	if !s.sent.CompareAndSwap(false, true) {
		return future.Completed(ErrAlreadySent)
	}

	return future.Completed(sink.Accept(s.code, s.header.Clone(), bytes.NewReader(s.body)))
}
