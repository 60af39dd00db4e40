package handler

import (
	"errors"
	"fmt"
	"io"

	"gitlab.com/gitlab-org/labkit/log"
	"go.uber.org/atomic"

	"gitlab.com/gitlab-org/artifact-gateway/internal/errortracking"
	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
	"gitlab.com/gitlab-org/artifact-gateway/internal/response"
)

// ErrAlreadyHandled is reported when a Deferred handler is asked to handle a
// second request. The captured body can be consumed only once.
var ErrAlreadyHandled = errors.New("deferred handler already handled a request")

// Deferred is a handler whose real implementation is not known yet
type Deferred struct {
	handler *future.Future[Handler]
	handled *atomic.Bool
}

// NewDeferred wraps a future handler
func NewDeferred(handler *future.Future[Handler]) *Deferred {
	return &Deferred{
		handler: handler,
		handled: atomic.NewBool(false),
	}
}

// Handle captures the request and returns a deferred response right away.
// Once the handler resolves it is invoked with the captured request and its
// response becomes the content of the returned one.
func (d *Deferred) Handle(line string, headers Headers, body io.Reader) response.Response {
	if !d.handled.CompareAndSwap(false, true) {
		log.WithError(ErrAlreadyHandled).WithField("request_line", line).Error("deferred handler reused")
		return response.NewFailed(ErrAlreadyHandled)
	}

	rsp := future.New[response.Response]()

	d.handler.OnComplete(func(h Handler) {
		rsp.Complete(invoke(h, line, headers, body))
	})

	return response.NewDeferred(rsp)
}

func invoke(h Handler, line string, headers Headers, body io.Reader) (rsp response.Response) {
	if h == nil {
		log.WithField("request_line", line).Warn("deferred handler resolved to nil")
		return response.NotFound()
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("handler panic: %v", r)
			log.WithError(err).WithField("request_line", line).Error("resolved handler failed")
			errortracking.CaptureErrWithStackTrace(err, errortracking.WithField("request_line", line))

			rsp = response.InternalServerError()
		}
	}()

	rsp = h.Handle(line, headers, body)
	if rsp == nil {
		return response.NewFailed(response.ErrNoResponse)
	}

	return rsp
}
