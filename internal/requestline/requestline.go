// Package requestline parses the first line of an HTTP/1.x request.
package requestline

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Asterisk is the request-target used by server-wide requests such as
// `OPTIONS * HTTP/1.1`.
const Asterisk = "*"

// ErrMalformed is returned for every request line that can not be parsed
var ErrMalformed = errors.New("malformed request line")

// Line is a parsed `METHOD SP request-target SP version` request line
type Line struct {
	Method  string
	Target  string
	Version string
	URI     *url.URL
}

// Parse splits line into its method, request-target and version and parses
// the request-target.
func Parse(line string) (Line, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), " ")
	if len(parts) != 3 {
		return Line{}, fmt.Errorf("%w: expected 3 parts, got %d", ErrMalformed, len(parts))
	}

	method, target, version := parts[0], parts[1], parts[2]

	if !isToken(method) {
		return Line{}, fmt.Errorf("%w: invalid method %q", ErrMalformed, method)
	}

	if !isVersion(version) {
		return Line{}, fmt.Errorf("%w: invalid version %q", ErrMalformed, version)
	}

	if target == Asterisk {
		return Line{Method: method, Target: target, Version: version, URI: &url.URL{Path: Asterisk}}, nil
	}

	uri, err := url.ParseRequestURI(target)
	if err != nil {
		return Line{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return Line{Method: method, Target: target, Version: version, URI: uri}, nil
}

// Path returns the path of the request-target
func (l Line) Path() string {
	if l.URI == nil {
		return ""
	}

	return l.URI.Path
}

// String formats the line back into its wire form
func (l Line) String() string {
	return l.Method + " " + l.Target + " " + l.Version
}

func isVersion(version string) bool {
	if !strings.HasPrefix(version, "HTTP/") {
		return false
	}

	v := strings.TrimPrefix(version, "HTTP/")

	return len(v) == 3 && isDigit(v[0]) && v[1] == '.' && isDigit(v[2])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isToken reports whether s is a non-empty RFC 7230 token
func isToken(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c):
		case strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0:
		default:
			return false
		}
	}

	return true
}
