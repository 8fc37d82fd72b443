package http

import (
	"strings"

	"github.com/valyala/bytebufferpool"
)

const (
	schemeSeparator = "://"
	defaultPath     = "/"

	httpPort  = "80"
	httpsPort = "443"
)

// Target is the location a single request is sent to. It is rebuilt from the literal URL string
// on every call and never validated beyond the scheme separator and first slash search.
//
//	https://example.com:8443/a/b?c=d
//	Scheme: https, Host: example.com:8443, Path: /a/b?c=d
type Target struct {
	Scheme string // Scheme is whatever preceded "://". It may be empty
	Host   string // Host is the authority, domain with an optional port
	Path   string // Path is the request target including any query string. Defaults to "/"
}

// SplitURL will split the url into the scheme, host and path.
// Everything up to and including the first "://" is stripped. The remainder is split on the first "/";
// the host is everything before it and the path is everything from it onward. If there is no "/",
// the whole remainder is the host and the path is "/".
//
// Malformed input is not rejected: "foo" yields a host of "foo", and "http:///x" yields an empty host. These
// surface as connection failures when the request is performed.
func SplitURL(url string) Target {
	var t Target
	rest := url
	if i := strings.Index(rest, schemeSeparator); i >= 0 {
		t.Scheme = rest[:i]
		rest = rest[i+len(schemeSeparator):]
	}

	if i := strings.IndexByte(rest, '/'); i >= 0 {
		t.Host = rest[:i]
		t.Path = rest[i:]
	} else {
		t.Host = rest
		t.Path = defaultPath
	}
	return t
}

// IsTLS returns whether the target should be dialed with TLS. Only an https scheme selects TLS
func (t Target) IsTLS() bool {
	return strings.EqualFold(t.Scheme, "https")
}

// HasPort returns whether the host already contains a port.
// There's no IPv6 bracket handling, so a bare IPv6 literal is treated as host:port
func (t Target) HasPort() bool {
	return strings.IndexByte(t.Host, ':') >= 0
}

// AppendScheme will append the scheme used on the wire, not including the ://
func (t Target) AppendScheme(buf []byte) []byte {
	if t.IsTLS() {
		return append(buf, "https"...)
	}
	return append(buf, "http"...)
}

// AppendAddr will append the dial address. The default port for the scheme is added when the host
// does not carry one, e.g. example.com -> example.com:443 for https
func (t Target) AppendAddr(buf []byte) []byte {
	buf = append(buf, t.Host...)
	if t.HasPort() {
		return buf
	}
	buf = append(buf, ':')
	if t.IsTLS() {
		return append(buf, httpsPort...)
	}
	return append(buf, httpPort...)
}

// Addr returns the host:port to dial
func (t Target) Addr() string {
	w := bytebufferpool.Get()
	w.B = t.AppendAddr(w.B)
	ret := string(w.B)
	bytebufferpool.Put(w)
	return ret
}

// AppendBytes will append the full request URI, e.g. https://example.com/foo
func (t Target) AppendBytes(b []byte) []byte {
	b = t.AppendScheme(b)
	b = append(b, schemeSeparator...)
	b = append(b, t.Host...)
	b = append(b, t.Path...)
	return b
}

// String will return the URI that is actually requested
func (t Target) String() string {
	w := bytebufferpool.Get()
	w.B = t.AppendBytes(w.B)
	ret := string(w.B)
	bytebufferpool.Put(w)
	return ret
}
