package sqlfunc

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/httpfn/httpfn/pkg/http"
	"github.com/httpfn/httpfn/pkg/log"
	"modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver the functions are registered with
	DriverName = "sqlite"

	FuncGet  = "http_get"
	FuncPost = "http_post"
)

// binding is what the registered functions call through. It is swapped atomically so Register can be
// called again with a differently configured client
type binding struct {
	ctx    context.Context
	client *http.Client
}

var (
	active       atomic.Pointer[binding]
	registerOnce sync.Once
	registerErr  error
)

// Register will install http_get and http_post on every sqlite connection opened afterwards.
// The driver only allows a function name to be registered once per process, so subsequent calls only
// replace the client the functions use. A nil client uses the default configuration
func Register(c *http.Client) error {
	return RegisterContext(context.Background(), c)
}

// RegisterContext is Register with a context that every request made from sql is bound to.
// Cancelling ctx makes every later call fail with "Request was canceled."
func RegisterContext(ctx context.Context, c *http.Client) error {
	if c == nil {
		var err error
		if c, err = http.NewClient(); err != nil {
			return err
		}
	}
	active.Store(&binding{ctx: ctx, client: c})

	registerOnce.Do(func() {
		if err := sqlite.RegisterScalarFunction(FuncGet, 1, httpGet); err != nil {
			registerErr = fmt.Errorf("failed to register %s: %w", FuncGet, err)
			return
		}
		if err := sqlite.RegisterScalarFunction(FuncPost, 3, httpPost); err != nil {
			registerErr = fmt.Errorf("failed to register %s: %w", FuncPost, err)
			return
		}
		log.Debug().Strs("functions", []string{FuncGet, FuncPost}).Msg("registered sql functions")
	})
	return registerErr
}

// Open will register the functions with c and open the dsn with the sqlite driver
func Open(dsn string, c *http.Client) (*sql.DB, error) {
	if err := Register(c); err != nil {
		return nil, err
	}
	return sql.Open(DriverName, dsn)
}

func httpGet(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	url, ok := textArg(args[0])
	if !ok {
		return nil, nil
	}
	b := active.Load()
	return b.client.Get(b.ctx, url)
}

func httpPost(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	var vals [3]string
	for i, a := range args {
		v, ok := textArg(a)
		if !ok {
			return nil, nil
		}
		vals[i] = v
	}
	b := active.Load()
	return b.client.Post(b.ctx, vals[0], vals[1], vals[2])
}

// textArg converts a sql argument to text. ok is false for NULL
func textArg(v driver.Value) (s string, ok bool) {
	switch vv := v.(type) {
	case nil:
		return "", false
	case string:
		return vv, true
	case []byte:
		return string(vv), true
	default:
		return fmt.Sprint(vv), true
	}
}
