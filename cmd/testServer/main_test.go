package main

import (
	"context"
	"net"
	"testing"

	"github.com/httpfn/httpfn/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func memoryClient(t *testing.T, opts ...http.ConfigOption) *http.Client {
	ln := fasthttputil.NewInmemoryListener()
	s := &fasthttp.Server{Handler: newRouter().Handler}
	go s.Serve(ln)
	t.Cleanup(func() { ln.Close() })

	opts = append(opts, http.Dial(func(addr string) (net.Conn, error) {
		return ln.Dial()
	}))
	c, err := http.NewClient(opts...)
	require.NoError(t, err)
	return c
}

func TestRoutes(t *testing.T) {
	c := memoryClient(t)
	ctx := context.Background()

	body, err := c.Get(ctx, "http://memory/")
	require.NoError(t, err)
	assert.Equal(t, "Welcome!", body)

	resp, err := c.Do(ctx, http.Request{URL: "http://memory/redirect/3"})
	require.NoError(t, err)
	assert.Equal(t, "redirects done\n", string(resp.Body))
	assert.Equal(t, 3, resp.Redirects)

	body, err = c.Get(ctx, "http://memory/gzip")
	require.NoError(t, err)
	assert.Equal(t, "this body was gzipped\n", body)

	_, err = c.Get(ctx, "http://memory/status/404")
	assert.EqualError(t, err, "HTTP GET error: 404 - Not Found")

	_, err = c.Get(ctx, "http://memory/status/abc")
	assert.EqualError(t, err, "HTTP GET error: 400 - Bad Request")
}

func TestEcho(t *testing.T) {
	c := memoryClient(t, http.UserAgent("echo-test"))

	body, err := c.Post(context.Background(), "http://memory/echo?x=1", "X-Trace: abc123", `{"a":1}`)
	require.NoError(t, err)
	assert.Contains(t, body, "POST /echo?x=1\n")
	assert.Contains(t, body, "X-Trace: abc123\n")
	assert.Contains(t, body, "Content-Type: application/json\n")
	assert.Contains(t, body, "User-Agent: echo-test\n")
	assert.Contains(t, body, "\n\n{\"a\":1}")
}

func TestRedirectLimit(t *testing.T) {
	c := memoryClient(t, http.MaxRedirects(2))

	_, err := c.Get(context.Background(), "http://memory/redirect/3")
	assert.EqualError(t, err, "HTTP GET request failed. Too many redirects.")
}
