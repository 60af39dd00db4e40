package server

import (
	"context"
	"io"
	"net/http"
	"sort"

	"gitlab.com/gitlab-org/artifact-gateway/internal/errortracking"
	"gitlab.com/gitlab-org/artifact-gateway/internal/handler"
	"gitlab.com/gitlab-org/artifact-gateway/internal/logging"
	"gitlab.com/gitlab-org/artifact-gateway/internal/response"
	"gitlab.com/gitlab-org/artifact-gateway/metrics"
)

// Dispatcher is the entry point every HTTP request is handed to
type Dispatcher interface {
	HandleContext(ctx context.Context, line string, headers handler.Headers, body io.Reader) response.Response
}

// NewHandler adapts dispatcher to net/http. The serving goroutine waits for
// the response to be delivered, or for the client to go away.
func NewHandler(dispatcher Dispatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sink := newResponseWriterSink(w)
		defer sink.close()

		rsp := dispatcher.HandleContext(r.Context(), RequestLine(r), Headers(r), r.Body)

		err, waitErr := rsp.Send(sink).Wait(r.Context())
		if waitErr != nil {
			logging.LogRequest(r).WithError(waitErr).Info("client went away before the response was delivered")
			return
		}

		if err != nil {
			sink.fail()

			metrics.DeliveryErrors.Inc()
			logging.LogRequest(r).WithError(err).Error("response delivery failed")
			errortracking.CaptureErrWithReqAndStackTrace(err, r)
		}
	})
}

// RequestLine rebuilds the request line of r
func RequestLine(r *http.Request) string {
	target := r.RequestURI
	if target == "" {
		target = r.URL.RequestURI()
	}

	return r.Method + " " + target + " " + r.Proto
}

// Headers flattens the headers of r, ordered by name. Host is added first
// since net/http removes it from the header map.
func Headers(r *http.Request) handler.Headers {
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make(handler.Headers, 0, len(names)+1)
	if r.Host != "" {
		headers = append(headers, handler.Header{Name: "Host", Value: r.Host})
	}

	for _, name := range names {
		for _, value := range r.Header[name] {
			headers = append(headers, handler.Header{Name: name, Value: value})
		}
	}

	return headers
}
