// Package handler defines the Handler capability and the handlers owned by
// the gateway: the terminal not-found handler and the deferred handler that
// stands in for a handler still being resolved.
package handler

import (
	"io"
	"strings"

	"gitlab.com/gitlab-org/artifact-gateway/internal/response"
)

// Header is a single request header field
type Header struct {
	Name  string
	Value string
}

// Headers is the ordered list of request header fields
type Headers []Header

// Get returns the value of the first header named name, compared case
// insensitively
func (h Headers) Get(name string) string {
	for _, header := range h {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}

	return ""
}

// Handler turns a request into a Response. Implementations must not block:
// slow work belongs inside the returned Response.
type Handler interface {
	Handle(line string, headers Headers, body io.Reader) response.Response
}

// Func adapts an ordinary function to the Handler interface
type Func func(line string, headers Headers, body io.Reader) response.Response

// Handle calls f(line, headers, body)
func (f Func) Handle(line string, headers Headers, body io.Reader) response.Response {
	return f(line, headers, body)
}
