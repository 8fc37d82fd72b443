package http

import (
	"context"
	"net"
	"testing"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func memoryRedirectServer(t fataler) *fasthttputil.InmemoryListener {
	ln := fasthttputil.NewInmemoryListener()
	s := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			if string(ctx.Path()) == "/foo" {
				ctx.Response.AppendBodyString("foo")
				return
			}
			ctx.Response.SetStatusCode(302)
			ctx.Response.Header.AddBytesKV([]byte("location"), []byte("/foo"))
		},
	}
	go s.Serve(ln)
	return ln
}

func memoryClient(b *testing.B, ln *fasthttputil.InmemoryListener) *Client {
	c, err := NewClient(Dial(func(addr string) (net.Conn, error) {
		return ln.Dial()
	}))
	if err != nil {
		b.Fatal(err)
	}
	return c
}

func BenchmarkMemoryGet(b *testing.B) {
	b.ReportAllocs()
	ln := memoryServer(b)
	defer ln.Close()

	var (
		c   = memoryClient(b, ln)
		ctx = context.Background()
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Get(ctx, "http://memory/foo"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemoryPost(b *testing.B) {
	b.ReportAllocs()
	ln := memoryServer(b)
	defer ln.Close()

	var (
		c       = memoryClient(b, ln)
		ctx     = context.Background()
		headers = "X-Trace: abc123\nX-Other: 1"
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Post(ctx, "http://memory/foo", headers, `{"a":1}`); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemoryRedirect(b *testing.B) {
	b.ReportAllocs()
	ln := memoryRedirectServer(b)
	defer ln.Close()

	var (
		c   = memoryClient(b, ln)
		ctx = context.Background()
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Get(ctx, "http://memory/bar"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemoryBatch(b *testing.B) {
	b.ReportAllocs()
	ln := memoryServer(b)
	defer ln.Close()

	var (
		c    = memoryClient(b, ln)
		ctx  = context.Background()
		reqs = make([]Request, 64)
	)
	for i := range reqs {
		reqs[i] = Request{URL: "http://memory/foo"}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.DoBatch(ctx, reqs, Parallelism(8)).Err(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseHeaders(b *testing.B) {
	b.ReportAllocs()
	block := "Content-Type: text/plain\nX-Trace: abc123\nAuthorization: Bearer token\nnot a header\nX-Dup: 1\nX-Dup: 2"
	for i := 0; i < b.N; i++ {
		ParseHeaders(block)
	}
}

func BenchmarkSplitURL(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		t := SplitURL("https://example.com:8443/a/b?c=d")
		_ = t.Addr()
	}
}
