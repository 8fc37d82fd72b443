package fetch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/httpfn/httpfn/pkg/http"
)

type BatchOptions struct {
	URLTemplate string
	Method      string
	Headers     http.Headers
	Body        string

	Parallelism int
	FailFast    bool
	Progress    bool

	Output Format
	Writer io.Writer
	// ProgressWriter is where the progress bar is drawn. Defaults to stderr
	ProgressWriter io.Writer
}

func (o *BatchOptions) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "URLTemplate: %s\n", o.URLTemplate)
	fmt.Fprintf(&sb, "Method: %s\n", o.Method)
	fmt.Fprintf(&sb, "Headers: %s\n", o.Headers)
	fmt.Fprintf(&sb, "Body: %d bytes\n", len(o.Body))
	fmt.Fprintf(&sb, "Parallelism: %d\n", o.Parallelism)
	fmt.Fprintf(&sb, "FailFast: %t\n", o.FailFast)
	fmt.Fprintf(&sb, "Progress: %t\n", o.Progress)
	return sb.String()
}

type BatchOption func(o *BatchOptions) error

func NewDefaultBatchOptions() *BatchOptions {
	return &BatchOptions{
		URLTemplate:    DefaultTemplate,
		Parallelism:    1,
		Output:         Pretty,
		Writer:         os.Stdout,
		ProgressWriter: os.Stderr,
	}
}

func URLTemplate(v string) BatchOption {
	return func(o *BatchOptions) error {
		o.URLTemplate = v
		return nil
	}
}

func Method(v string) BatchOption {
	return func(o *BatchOptions) error {
		o.Method = strings.ToUpper(v)
		return nil
	}
}

// AddHeaders will parse every "Key: Value" string and append it to the request headers
func AddHeaders(headers []string) BatchOption {
	return func(o *BatchOptions) error {
		for _, h := range headers {
			parsed := http.ParseHeaders(h)
			if len(parsed) == 0 {
				return fmt.Errorf("invalid header %q, expected 'Key: Value'", h)
			}
			o.Headers = append(o.Headers, parsed...)
		}
		return nil
	}
}

func Body(v string) BatchOption {
	return func(o *BatchOptions) error {
		o.Body = v
		return nil
	}
}

func Parallelism(n int) BatchOption {
	return func(o *BatchOptions) error {
		if n < 1 {
			return fmt.Errorf("parallelism must be at least 1, got %d", n)
		}
		o.Parallelism = n
		return nil
	}
}

func FailFast(v bool) BatchOption {
	return func(o *BatchOptions) error {
		o.FailFast = v
		return nil
	}
}

func ProgressBarEnabled(v bool) BatchOption {
	return func(o *BatchOptions) error {
		o.Progress = v
		return nil
	}
}

func OutputFormat(v Format) BatchOption {
	return func(o *BatchOptions) error {
		o.Output = v
		return nil
	}
}

func Writer(w io.Writer) BatchOption {
	return func(o *BatchOptions) error {
		o.Writer = w
		return nil
	}
}

func ProgressWriter(w io.Writer) BatchOption {
	return func(o *BatchOptions) error {
		o.ProgressWriter = w
		return nil
	}
}
