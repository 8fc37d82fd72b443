package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/httpfn/httpfn/pkg/log"
	"github.com/valyala/fasthttp"
)

const (
	MethodGet  = fasthttp.MethodGet
	MethodPost = fasthttp.MethodPost
	MethodHead = fasthttp.MethodHead

	// ContentTypeJSON is the content type of every Post, regardless of the body
	ContentTypeJSON = "application/json"
)

// Request is the input of a single round trip
type Request struct {
	Method      string // Method defaults to GET
	URL         string
	Headers     Headers
	Body        []byte
	ContentType string // ContentType if set will replace any Content-Type in Headers
}

// Response is what came back from the final hop of a redirect chain
type Response struct {
	StatusCode int
	Reason     string
	Body       []byte
	Redirects  int // Redirects is the number of redirects that were followed
}

// doer is satisfied by both fasthttp.HostClient and fasthttp.Client
type doer interface {
	Do(req *fasthttp.Request, resp *fasthttp.Response) error
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

// Client performs one-shot requests. Every call builds its own fasthttp.HostClient bound to the
// host parsed out of the url, so calls share no connections. A Client is safe for concurrent use
type Client struct {
	config Config
	dialer *fasthttp.TCPDialer

	tlsOnce   sync.Once
	tlsConfig *tls.Config
	tlsErr    error
}

// NewClient will create a client with the default config modified by the provided options
func NewClient(opts ...ConfigOption) (*Client, error) {
	cfg := NewDefaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: *cfg,
		dialer: &fasthttp.TCPDialer{},
	}
	if cfg.LocalAddr != "" {
		c.dialer.LocalAddr = &net.TCPAddr{IP: net.ParseIP(cfg.LocalAddr)}
	}
	return c, nil
}

// Config returns a copy of the config the client was built with
func (c *Client) Config() Config {
	return c.config
}

// Get performs a GET against the url and returns the body when the status is exactly 200
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	resp, err := c.Do(ctx, Request{Method: MethodGet, URL: url})
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// Post performs a POST against the url with the newline delimited header block and the body sent verbatim.
// The content type is always application/json
func (c *Client) Post(ctx context.Context, url string, headers string, body string) (string, error) {
	resp, err := c.Do(ctx, Request{
		Method:      MethodPost,
		URL:         url,
		Headers:     ParseHeaders(headers),
		Body:        []byte(body),
		ContentType: ContentTypeJSON,
	})
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// Do performs the request following redirects.
// A *TransportError is returned when no response was obtained. A *StatusError is returned alongside the
// response when the final status code is anything other than 200
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	method := methodOf(r)
	target := SplitURL(r.URL)
	if target.Host == "" {
		return nil, newTransportError(method, ErrEmptyHost)
	}

	var tlsConfig *tls.Config
	if target.IsTLS() {
		var err error
		if tlsConfig, err = c.loadTLSConfig(); err != nil {
			return nil, newTransportError(method, err)
		}
	}

	var (
		freq  = fasthttp.AcquireRequest()
		fresp = fasthttp.AcquireResponse()
	)
	defer fasthttp.ReleaseRequest(freq)
	defer fasthttp.ReleaseResponse(fresp)

	c.writeRequest(freq, target, method, r)

	log.Trace().
		Str("method", method).
		Str("uri", target.String()).
		Array("headers", r.Headers).
		Msg("sending request")

	hc := c.hostClient(target, tlsConfig)
	redirects, err := c.doRequestFollowRedirects(ctx, hc, freq, fresp, tlsConfig)
	if err != nil {
		terr := newTransportError(method, err)
		log.Debug().Err(err).
			Str("method", method).
			Str("uri", target.String()).
			Str("kind", terr.Kind.String()).
			Msg("request failed")
		return nil, terr
	}

	ret := &Response{
		StatusCode: fresp.StatusCode(),
		Reason:     reasonPhrase(fresp),
		Redirects:  redirects,
	}
	if ret.StatusCode != fasthttp.StatusOK {
		ret.Body = append([]byte(nil), fresp.Body()...)
		return ret, &StatusError{Method: method, StatusCode: ret.StatusCode, Reason: ret.Reason}
	}

	body, err := c.decodeBody(fresp)
	if err != nil {
		return nil, newTransportError(method, err)
	}
	ret.Body = append([]byte(nil), body...)
	return ret, nil
}

// writeRequest will populate the fasthttp request. Headers are added in order, so duplicates survive.
// Entries with an empty key have nothing to write and are skipped
func (c *Client) writeRequest(dst *fasthttp.Request, t Target, method string, r Request) {
	dst.Header.DisableNormalizing()
	dst.SetRequestURI(t.String())
	dst.URI().DisablePathNormalizing = true
	dst.Header.SetMethod(method)
	// one connection per call
	dst.SetConnectionClose()

	if c.config.UserAgent != "" {
		dst.Header.SetUserAgent(c.config.UserAgent)
	}

	for _, h := range r.Headers {
		if h.Key == "" {
			continue
		}
		dst.Header.Add(h.Key, h.Value)
	}

	if len(r.Body) > 0 || method == MethodPost {
		dst.SetBody(r.Body)
	}
	if r.ContentType != "" {
		dst.Header.SetContentType(r.ContentType)
	}
}

func (c *Client) loadTLSConfig() (*tls.Config, error) {
	c.tlsOnce.Do(func() {
		c.tlsConfig, c.tlsErr = c.config.tlsConfig()
	})
	return c.tlsConfig, c.tlsErr
}

func (c *Client) dial(addr string) (net.Conn, error) {
	if c.config.Dial != nil {
		return c.config.Dial(addr)
	}
	if c.config.ConnectTimeout > 0 {
		return c.dialer.DialTimeout(addr, c.config.ConnectTimeout)
	}
	return c.dialer.Dial(addr)
}

// hostClient will create a http client configured specifically for requesting against the target host
func (c *Client) hostClient(t Target, tlsConfig *tls.Config) *fasthttp.HostClient {
	return &fasthttp.HostClient{
		Addr:                      t.Addr(),
		IsTLS:                     t.IsTLS(),
		TLSConfig:                 tlsConfig,
		Dial:                      c.dial,
		ReadTimeout:               c.config.ReadTimeout,
		WriteTimeout:              c.config.WriteTimeout,
		MaxResponseBodySize:       c.config.MaxResponseBodySize,
		MaxIdemponentCallAttempts: 1,
		NoDefaultUserAgentHeader:  true,
		DisablePathNormalizing:    true,
	}
}

// backupClient provides a client that is not bound to a single host. This handles redirects that change
// the host, port or scheme of the request
func (c *Client) backupClient(tlsConfig *tls.Config) *fasthttp.Client {
	return &fasthttp.Client{
		TLSConfig:                 tlsConfig,
		Dial:                      c.dial,
		ReadTimeout:               c.config.ReadTimeout,
		WriteTimeout:              c.config.WriteTimeout,
		MaxResponseBodySize:       c.config.MaxResponseBodySize,
		MaxIdemponentCallAttempts: 1,
		NoDefaultUserAgentHeader:  true,
		DisablePathNormalizing:    true,
	}
}

// doRequestFollowRedirects will use the host client and follow up to config.MaxRedirects redirects.
// Once a redirect moves off the original host we switch to the backup client, and never switch back.
// A redirect response without a Location header ends the chain and is returned as the final response.
// The number of redirects followed is returned
func (c *Client) doRequestFollowRedirects(ctx context.Context, hc *fasthttp.HostClient, req *fasthttp.Request, resp *fasthttp.Response, tlsConfig *tls.Config) (int, error) {
	var (
		redirects int
		client    doer = hc
	)

	for {
		if err := ctx.Err(); err != nil {
			return redirects, err
		}
		if err := do(ctx, client, req, resp); err != nil {
			// a deadline on the context shows up as a fasthttp timeout, report the context instead
			if ctxErr := ctx.Err(); ctxErr != nil {
				return redirects, ctxErr
			}
			return redirects, err
		}

		statusCode := resp.StatusCode()
		if !c.config.FollowRedirects || !StatusCodeIsRedirect(statusCode) {
			return redirects, nil
		}

		location := resp.Header.Peek(fasthttp.HeaderLocation)
		if len(location) == 0 {
			log.Trace().Int("status", statusCode).Msg("redirect without location, ending chain")
			return redirects, nil
		}

		redirects++
		if redirects > c.config.MaxRedirects {
			log.Trace().Int("redirects", redirects).Msg("bailing out. reached max redirects")
			return redirects, fasthttp.ErrTooManyRedirects
		}

		samehost := updateRedirectURL(req.URI(), location)

		// a chain that started on plain http needs certificates once it is redirected to https
		if tlsConfig == nil && bytes.EqualFold(req.URI().Scheme(), []byte("https")) {
			var err error
			if tlsConfig, err = c.loadTLSConfig(); err != nil {
				return redirects, err
			}
			if bc, ok := client.(*fasthttp.Client); ok {
				bc.TLSConfig = tlsConfig
			}
		}

		// this is a single direction switch. once we move off the original host, the host client is useless
		if !samehost {
			if _, ok := client.(*fasthttp.HostClient); ok {
				client = c.backupClient(tlsConfig)
			}
		}

		if statusCode == fasthttp.StatusSeeOther && !isGetOrHead(req.Header.Method()) {
			req.Header.SetMethod(MethodGet)
			req.ResetBody()
			dropRequestHeaders(&req.Header)
		}

		log.Trace().
			Bytes("location", location).
			Int("status", statusCode).
			Msg("following redirect")
		resp.Reset()
	}
}

// dropRequestHeaders removes the caller's headers from a request turned into a GET by a 303.
// Host, User-Agent and Connection are kept so the hop is still addressed and closed the same way
func dropRequestHeaders(h *fasthttp.RequestHeader) {
	var keys []string
	h.VisitAll(func(k, _ []byte) {
		keys = append(keys, string(k))
	})
	for _, k := range keys {
		switch {
		case strings.EqualFold(k, fasthttp.HeaderHost),
			strings.EqualFold(k, fasthttp.HeaderUserAgent),
			strings.EqualFold(k, fasthttp.HeaderConnection):
			continue
		}
		h.Del(k)
	}
	// the length left over from the original body
	h.Del(fasthttp.HeaderContentLength)
}

func do(ctx context.Context, client doer, req *fasthttp.Request, resp *fasthttp.Response) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		return client.Do(req, resp)
	}
	err := client.DoDeadline(req, resp, deadline)
	// the context timer may not have fired yet when DoDeadline gives up
	if errors.Is(err, fasthttp.ErrTimeout) && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return err
}

// updateRedirectURL will point the URI at the location header, resolving relative locations.
// Returns whether the host (including port) and scheme are unchanged
func updateRedirectURL(base *fasthttp.URI, location []byte) bool {
	var (
		host   = append([]byte{}, base.Host()...)
		scheme = append([]byte{}, base.Scheme()...)
	)
	base.UpdateBytes(location)
	return bytes.Equal(host, base.Host()) && bytes.Equal(scheme, base.Scheme())
}

// StatusCodeIsRedirect returns true if the status code indicates a redirect.
func StatusCodeIsRedirect(statusCode int) bool {
	return statusCode == fasthttp.StatusMovedPermanently ||
		statusCode == fasthttp.StatusFound ||
		statusCode == fasthttp.StatusSeeOther ||
		statusCode == fasthttp.StatusTemporaryRedirect ||
		statusCode == fasthttp.StatusPermanentRedirect
}

func isGetOrHead(method []byte) bool {
	return string(method) == MethodGet || string(method) == MethodHead
}

// reasonPhrase prefers the phrase sent by the server and falls back to the standard one
func reasonPhrase(resp *fasthttp.Response) string {
	if m := resp.Header.StatusMessage(); len(m) > 0 {
		return string(m)
	}
	return fasthttp.StatusMessage(resp.StatusCode())
}

// decodeBody will decompress the body according to Content-Encoding when enabled
func (c *Client) decodeBody(resp *fasthttp.Response) ([]byte, error) {
	if !c.config.DecodeBody {
		return resp.Body(), nil
	}

	var (
		b   []byte
		err error
	)
	encoding := bytes.ToLower(bytes.TrimSpace(resp.Header.Peek(fasthttp.HeaderContentEncoding)))
	switch string(encoding) {
	case "gzip", "x-gzip":
		b, err = resp.BodyGunzip()
	case "deflate":
		b, err = resp.BodyInflate()
	case "br":
		b, err = resp.BodyUnbrotli()
	default:
		return resp.Body(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeBody, encoding, err)
	}
	return b, nil
}
