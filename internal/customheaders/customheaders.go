package customheaders

import (
	"bufio"
	"errors"
	"net/http"
	"net/textproto"
	"strings"
)

// ErrInvalidHeaderParameter is returned for a header flag that is not a
// `Name: value` pair
var ErrInvalidHeaderParameter = errors.New("invalid syntax specified as header parameter")

// ParseHeaderString parses `Name: value` strings into canonical headers
func ParseHeaderString(customHeaders []string) (http.Header, error) {
	headers := http.Header{}
	for _, keyValueString := range customHeaders {
		keyValueString = strings.TrimSpace(keyValueString) + "\n\n"
		tp := textproto.NewReader(bufio.NewReader(strings.NewReader(keyValueString)))
		keyValue, err := tp.ReadMIMEHeader()
		if err != nil || len(keyValue) == 0 {
			return nil, ErrInvalidHeaderParameter
		}

		for k, v := range keyValue {
			k = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(k))
			headers[k] = append(headers[k], v...)
		}
	}
	return headers, nil
}

// NewMiddleware returns middleware adding headers to every gateway response,
// including the ones produced by repository handlers
func NewMiddleware(handler http.Handler, headers http.Header) http.Handler {
	if len(headers) == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			for _, value := range v {
				w.Header().Add(k, value)
			}
		}

		handler.ServeHTTP(w, r)
	})
}
