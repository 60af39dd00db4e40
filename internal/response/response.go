// Package response defines the Response capability and the variants produced
// by the gateway itself.
package response

import (
	"errors"
	"io"
	"net/http"

	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
)

var (
	// ErrAlreadySent is reported when Send is called more than once on the
	// same response
	ErrAlreadySent = errors.New("response already sent")
	// ErrNoResponse is reported when a deferred response resolves to nil
	ErrNoResponse = errors.New("deferred response resolved to nil")
	// ErrSendPanic is reported when a resolved response panics while sending
	ErrSendPanic = errors.New("response panicked while sending")
)

// Sink accepts the status, headers and body of exactly one response, e.g. a
// network connection.
type Sink interface {
	Accept(status int, header http.Header, body io.Reader) error
}

// Response delivers itself to a Sink. The returned future completes once the
// sink has accepted the response, or with the error that prevented it.
type Response interface {
	Send(sink Sink) *future.Future[error]
}

// Failed is a response that never reaches its sink and reports err instead
type Failed struct {
	err error
}

// NewFailed returns a response that reports err on Send
func NewFailed(err error) *Failed {
	return &Failed{err: err}
}

// Send reports the failure without touching sink
func (f *Failed) Send(Sink) *future.Future[error] {
	return future.Completed(f.err)
}

// Err returns the failure carried by the response
func (f *Failed) Err() error {
	return f.err
}
