package testhelpers

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// Delivery is a single call recorded by Sink
type Delivery struct {
	Status int
	Header http.Header
	Body   []byte
}

// Sink records every response accepted by it
type Sink struct {
	mux        sync.Mutex
	deliveries []Delivery
	err        error
}

// NewSink returns a Sink that accepts everything
func NewSink() *Sink {
	return &Sink{}
}

// NewFailingSink returns a Sink that records deliveries and rejects them with err
func NewFailingSink(err error) *Sink {
	return &Sink{err: err}
}

// Accept records the delivery
func (s *Sink) Accept(status int, header http.Header, body io.Reader) error {
	var buf bytes.Buffer
	if body != nil {
		if _, err := io.Copy(&buf, body); err != nil {
			return err
		}
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	s.deliveries = append(s.deliveries, Delivery{Status: status, Header: header, Body: buf.Bytes()})

	return s.err
}

// Deliveries returns a copy of what was accepted so far
func (s *Sink) Deliveries() []Delivery {
	s.mux.Lock()
	defer s.mux.Unlock()

	return append([]Delivery(nil), s.deliveries...)
}

// Count returns the number of accepted deliveries
func (s *Sink) Count() int {
	s.mux.Lock()
	defer s.mux.Unlock()

	return len(s.deliveries)
}

// RequireSingleStatus asserts sink received exactly one delivery with status
func RequireSingleStatus(t testing.TB, sink *Sink, status int) {
	t.Helper()

	deliveries := sink.Deliveries()
	require.Len(t, deliveries, 1, "deliveries")
	require.Equal(t, status, deliveries[0].Status, "HTTP status")
}

// AssertLogContains checks that wantLogEntry is contained in at least one of the log entries
func AssertLogContains(t *testing.T, wantLogEntry string, entries []*logrus.Entry) {
	t.Helper()

	if wantLogEntry != "" {
		messages := make([]string, len(entries))
		for k, entry := range entries {
			messages[k] = entry.Message
		}

		require.Contains(t, messages, wantLogEntry)
	}
}

// WriteFile creates name with contents under dir and returns its path
func WriteFile(tb testing.TB, dir, name, contents string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(tb, os.WriteFile(path, []byte(contents), 0644))

	return path
}
