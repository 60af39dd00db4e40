package response

import (
	"fmt"

	"gitlab.com/gitlab-org/labkit/log"
	"go.uber.org/atomic"

	"gitlab.com/gitlab-org/artifact-gateway/internal/errortracking"
	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
)

// Deferred is a response whose real content is not known yet. Sending it
// forwards to the resolved response as soon as it becomes available.
type Deferred struct {
	response *future.Future[Response]
	sent     *atomic.Bool
}

// NewDeferred wraps a future response
func NewDeferred(response *future.Future[Response]) *Deferred {
	return &Deferred{
		response: response,
		sent:     atomic.NewBool(false),
	}
}

// Send registers delivery to sink once the response resolves and returns
// immediately. The returned future completes with the outcome of the
// resolved response's own Send. A second call fails with ErrAlreadySent and
// never touches sink.
func (d *Deferred) Send(sink Sink) *future.Future[error] {
	if !d.sent.CompareAndSwap(false, true) {
		return future.Completed(ErrAlreadySent)
	}

	result := future.New[error]()

	d.response.OnComplete(func(rsp Response) {
		if rsp == nil {
			result.Complete(ErrNoResponse)
			return
		}

		forward(rsp, sink, result)
	})

	return result
}

// forward sends rsp to sink and completes result with the outcome. A panic
// in rsp.Send completes result with an error instead of leaving it pending.
func forward(rsp Response, sink Sink, result *future.Future[error]) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrSendPanic, r)
			log.WithError(err).Error("resolved response failed")
			errortracking.CaptureErrWithStackTrace(err)

			result.Complete(err)
		}
	}()

	rsp.Send(sink).OnComplete(func(err error) {
		result.Complete(err)
	})
}
