package main

import (
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fasthttp/router"
	"github.com/httpfn/httpfn/pkg/log"
	"github.com/valyala/fasthttp"
)

var (
	requestCount count32
)

type count32 struct {
	val uint32
}

func (c *count32) increment() {
	atomic.AddUint32(&c.val, 1)
}

func (c *count32) get() uint32 {
	return atomic.LoadUint32(&c.val)
}

func PreRequest(ctx *fasthttp.RequestCtx) {
	requestCount.increment()
	log.Debug().
		Bytes("method", ctx.Method()).
		Bytes("uri", ctx.RequestURI()).Msg("got request")
}

func Index(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	ctx.WriteString("Welcome!")
}

// Echo writes back the request line, every header sorted by name, and the body
func Echo(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	fmt.Fprintf(ctx, "%s %s\n", ctx.Method(), ctx.RequestURI())

	var headers []string
	ctx.Request.Header.VisitAll(func(k, v []byte) {
		headers = append(headers, string(k)+": "+string(v))
	})
	sort.Strings(headers)
	for _, h := range headers {
		fmt.Fprintln(ctx, h)
	}
	ctx.WriteString("\n")
	ctx.Write(ctx.PostBody())
}

func StatusResponder(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	code, err := strconv.Atoi(ctx.UserValue("code").(string))
	if err != nil || code < 100 || code > 999 {
		ctx.Error("invalid status code", fasthttp.StatusBadRequest)
		return
	}
	ctx.SetStatusCode(code)
	fmt.Fprintf(ctx, "status %d\n", code)
}

// RedirectResponder redirects to /redirect/{n-1} until n reaches 0, which lands on a 200
func RedirectResponder(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	n, err := strconv.Atoi(ctx.UserValue("n").(string))
	if err != nil || n < 0 {
		ctx.Error("invalid redirect count", fasthttp.StatusBadRequest)
		return
	}
	if n == 0 {
		ctx.WriteString("redirects done\n")
		return
	}

	fmt.Fprintf(ctx, "go to, %d!\n", n-1)
	ctx.SetStatusCode(fasthttp.StatusFound)
	ctx.Response.Header.Add("location", "/redirect/"+strconv.Itoa(n-1))
}

func GzipResponder(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	ctx.Response.Header.Set(fasthttp.HeaderContentEncoding, "gzip")
	ctx.Write(fasthttp.AppendGzipBytes(nil, []byte("this body was gzipped\n")))
}

func StatsFunc(end <-chan bool) {
	// rolling average
	lastRequest := time.Now()
	lastRequestCount := requestCount.get()
	rpsPeak := float64(0)
	for {
		select {
		case <-end:
			fmt.Println("\nTerminating.")
			return
		default:
			timeDiff := time.Since(lastRequest).Seconds()
			curRequestCount := requestCount.get()
			requestCountDiff := curRequestCount - lastRequestCount
			rps := float64(requestCountDiff) / timeDiff
			if rps > rpsPeak {
				rpsPeak = rps
			}

			fmt.Printf("Total Requests: %d. Requests since last checkin: %d. RPS: %f. Peak: %f\t\t\t\t\r", curRequestCount, requestCountDiff, rps, rpsPeak)
			lastRequest = time.Now()
			lastRequestCount = curRequestCount
			time.Sleep(1 * time.Second)
		}
	}
}

func newRouter() *router.Router {
	r := router.New()
	r.GET("/", Index)
	r.ANY("/echo", Echo)
	r.ANY("/status/{code}", StatusResponder)
	r.ANY("/redirect/{n}", RedirectResponder)
	r.GET("/gzip", GzipResponder)
	return r
}

func main() {
	var (
		portRange string
		verbose   string
		stats     bool
	)
	flag.StringVar(&portRange, "p", "14000-14001", "Range of ports to start servers on")
	flag.StringVar(&verbose, "v", "info", "log level")
	flag.BoolVar(&stats, "stats", true, "print request statistics every second")
	flag.Parse()

	if err := log.SetLevelString(verbose); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	flagParts := strings.Split(portRange, "-")
	if len(flagParts) != 2 {
		log.Fatal().Msg("Invalid portRange. Format should be <int>-<int>")
	}

	startPort, err := strconv.Atoi(flagParts[0])
	if err != nil {
		log.Fatal().Msgf("Unable to parse port: %s", err)
	}

	endPort, err := strconv.Atoi(flagParts[1])
	if err != nil {
		log.Fatal().Msgf("Unable to parse port: %s", err)
	}

	r := newRouter()

	var wg sync.WaitGroup
	for i := startPort; i < endPort; i++ {
		wg.Add(1)
		go func(port int) {
			Host := fmt.Sprintf(":%d", port)
			log.Info().Str("addr", Host).Msg("starting server")
			log.Fatal().Err(fasthttp.ListenAndServe(Host, r.Handler)).Msg("failed to start server")
			wg.Done()
		}(i)
	}

	statsFunc := make(chan bool)
	if stats {
		go StatsFunc(statsFunc)
	}
	wg.Wait()

	if stats {
		statsFunc <- true
	}
	close(statsFunc)
}
