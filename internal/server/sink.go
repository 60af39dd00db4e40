package server

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"gitlab.com/gitlab-org/artifact-gateway/internal/httperrors"
)

var errSinkClosed = errors.New("client connection is no longer writable")

// responseWriterSink delivers a response to an http.ResponseWriter. It may be
// written from the goroutine that completes a resolution, so it refuses any
// write once the serving goroutine has returned.
type responseWriterSink struct {
	mux     sync.Mutex
	w       http.ResponseWriter
	closed  bool
	written bool
}

func newResponseWriterSink(w http.ResponseWriter) *responseWriterSink {
	return &responseWriterSink{w: w}
}

func (s *responseWriterSink) Accept(status int, header http.Header, body io.Reader) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.closed {
		return errSinkClosed
	}

	s.written = true

	for key, values := range header {
		s.w.Header()[key] = values
	}
	s.w.WriteHeader(status)

	if body == nil {
		return nil
	}

	_, err := io.Copy(s.w, body)

	return err
}

// fail answers 500 when no response reached the writer yet, so a failed
// delivery never turns into an implicit empty 200
func (s *responseWriterSink) fail() {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.closed || s.written {
		return
	}

	s.written = true
	httperrors.Serve500(s.w)
}

func (s *responseWriterSink) close() {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.closed = true
}
