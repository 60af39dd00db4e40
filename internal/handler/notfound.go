package handler

import (
	"io"

	"gitlab.com/gitlab-org/artifact-gateway/internal/response"
)

// NotFound answers every request with 404. It is the fallback for every
// repository that can not be resolved to a configured handler.
type NotFound struct{}

// Handle returns the 404 response
func (NotFound) Handle(string, Headers, io.Reader) response.Response {
	return response.NotFound()
}
