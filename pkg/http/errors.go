package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/valyala/fasthttp"
)

var (
	// ErrEmptyHost is returned when the url has no authority. fasthttp would otherwise dial the local machine
	ErrEmptyHost = errors.New("empty host")
	// ErrLoadCerts wraps any failure to build the certificate pool for a client
	ErrLoadCerts = errors.New("failed to load certificates")
	// ErrDecodeBody wraps failures decoding a Content-Encoding compressed body
	ErrDecodeBody = errors.New("failed to decode body")
)

// ErrorKind is the category of a transport failure, i.e. one where no response was obtained
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	ErrorConnection
	ErrorBindIPAddress
	ErrorRead
	ErrorWrite
	ErrorExceedRedirectCount
	ErrorCanceled
	ErrorSSLConnection
	ErrorSSLLoadingCerts
	ErrorSSLServerVerification
	ErrorUnsupportedMultipartBoundaryChars
	ErrorCompression
)

var kindMessages = [...]string{
	ErrorUnknown:                           "Unknown error.",
	ErrorConnection:                        "Connection error.",
	ErrorBindIPAddress:                     "Failed to bind IP address.",
	ErrorRead:                              "Error reading response.",
	ErrorWrite:                             "Error writing request.",
	ErrorExceedRedirectCount:               "Too many redirects.",
	ErrorCanceled:                          "Request was canceled.",
	ErrorSSLConnection:                     "SSL connection failed.",
	ErrorSSLLoadingCerts:                   "Failed to load SSL certificates.",
	ErrorSSLServerVerification:             "SSL server verification failed.",
	ErrorUnsupportedMultipartBoundaryChars: "Unsupported characters in multipart boundary.",
	ErrorCompression:                       "Error during compression.",
}

var kindNames = [...]string{
	ErrorUnknown:                           "unknown",
	ErrorConnection:                        "connection",
	ErrorBindIPAddress:                     "bind_ip_address",
	ErrorRead:                              "read",
	ErrorWrite:                             "write",
	ErrorExceedRedirectCount:               "exceed_redirect_count",
	ErrorCanceled:                          "canceled",
	ErrorSSLConnection:                     "ssl_connection",
	ErrorSSLLoadingCerts:                   "ssl_loading_certs",
	ErrorSSLServerVerification:             "ssl_server_verification",
	ErrorUnsupportedMultipartBoundaryChars: "unsupported_multipart_boundary_chars",
	ErrorCompression:                       "compression",
}

// Message returns the fixed sentence for the kind. Any value outside the table yields the unknown sentence
func (k ErrorKind) Message() string {
	if k < 0 || int(k) >= len(kindMessages) {
		return kindMessages[ErrorUnknown]
	}
	return kindMessages[k]
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[ErrorUnknown]
	}
	return kindNames[k]
}

// Classify will map a low level error returned while performing a request onto an ErrorKind.
// The order of the checks matters: bind failures are wrapped in dial errors, and TLS verification
// errors are a special case of handshake errors
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorUnknown
	}

	var (
		opErr  *net.OpError
		sysErr *os.SyscallError
		dnsErr *net.DNSError

		verifyErr   *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		recordErr   tls.RecordHeaderError
		alertErr    tls.AlertError
	)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCanceled
	case errors.Is(err, fasthttp.ErrTooManyRedirects):
		return ErrorExceedRedirectCount
	case errors.Is(err, ErrLoadCerts):
		return ErrorSSLLoadingCerts
	case errors.As(err, &verifyErr),
		errors.As(err, &unknownAuth),
		errors.As(err, &hostErr),
		errors.As(err, &invalidErr):
		return ErrorSSLServerVerification
	case errors.Is(err, fasthttp.ErrTLSHandshakeTimeout),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr),
		errors.As(err, &opErr) && opErr.Op == "remote error",
		strings.Contains(err.Error(), "tls: "):
		return ErrorSSLConnection
	case errors.As(err, &sysErr) && sysErr.Syscall == "bind":
		return ErrorBindIPAddress
	case errors.Is(err, ErrEmptyHost),
		errors.Is(err, fasthttp.ErrDialTimeout),
		errors.Is(err, fasthttp.ErrNoFreeConns),
		errors.As(err, &dnsErr),
		errors.As(err, &opErr) && opErr.Op == "dial":
		return ErrorConnection
	case errors.Is(err, syscall.EPIPE),
		errors.As(err, &opErr) && opErr.Op == "write":
		return ErrorWrite
	case errors.Is(err, fasthttp.ErrTimeout),
		errors.Is(err, fasthttp.ErrConnectionClosed),
		errors.Is(err, fasthttp.ErrBodyTooLarge),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.As(err, &opErr) && opErr.Op == "read":
		return ErrorRead
	case errors.Is(err, ErrDecodeBody):
		return ErrorCompression
	}
	return ErrorUnknown
}

// StatusError is returned when a response was received but its status code was not exactly 200
type StatusError struct {
	Method     string
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %s error: %d - %s", e.Method, e.StatusCode, e.Reason)
}

// TransportError is returned when no response could be obtained.
// The message is the fixed sentence for Kind, the underlying error is available via errors.Unwrap
type TransportError struct {
	Method string
	Kind   ErrorKind
	Err    error
}

func newTransportError(method string, err error) *TransportError {
	return &TransportError{Method: method, Kind: Classify(err), Err: err}
}

func (e *TransportError) Error() string {
	return "HTTP " + e.Method + " request failed. " + e.Kind.Message()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatusError returns whether err is, or wraps, a *StatusError
func IsStatusError(err error) bool {
	var serr *StatusError
	return errors.As(err, &serr)
}

// IsTransportError returns whether err is, or wraps, a *TransportError
func IsTransportError(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}

// KindOf returns the ErrorKind of a *TransportError, and false for anything else
func KindOf(err error) (ErrorKind, bool) {
	var terr *TransportError
	if errors.As(err, &terr) {
		return terr.Kind, true
	}
	return ErrorUnknown, false
}
