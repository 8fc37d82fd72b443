package fetch

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/httpfn/httpfn/pkg/http"
	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{"
	endTag   = "}"

	// LineTag is replaced with the input line
	LineTag = "line"
	// IndexTag is replaced with the zero based row number
	IndexTag = "index"

	// DefaultTemplate sends every line as is
	DefaultTemplate = startTag + LineTag + endTag
)

// Template renders one request per input line. Only {line} and {index} are substituted. Any other
// brace delimited text, such as a json object in the body, is written back untouched
type Template struct {
	url  *fasttemplate.Template
	body *fasttemplate.Template

	method  string
	headers http.Headers
}

// NewTemplate compiles the url and body templates. An empty url template uses DefaultTemplate.
// An empty method defaults to GET, or POST when a body is given
func NewTemplate(url, method string, headers http.Headers, body string) (*Template, error) {
	if url == "" {
		url = DefaultTemplate
	}
	ut, err := fasttemplate.NewTemplate(url, startTag, endTag)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url template: %w", err)
	}

	t := &Template{url: ut, method: method, headers: headers}
	if body != "" {
		if t.body, err = fasttemplate.NewTemplate(body, startTag, endTag); err != nil {
			return nil, fmt.Errorf("failed to parse body template: %w", err)
		}
	}
	if t.method == "" {
		t.method = http.MethodGet
		if t.body != nil {
			t.method = http.MethodPost
		}
	}
	return t, nil
}

// Request renders the request for the line at index i
func (t *Template) Request(i int, line string) http.Request {
	f := tagFunc(i, line)
	r := http.Request{
		Method:  t.method,
		URL:     t.url.ExecuteFuncString(f),
		Headers: t.headers,
	}
	if t.body != nil {
		r.Body = []byte(t.body.ExecuteFuncString(f))
	}
	if r.Method == http.MethodPost {
		r.ContentType = http.ContentTypeJSON
	}
	return r
}

// Requests renders a request for every line, in order
func (t *Template) Requests(lines []string) []http.Request {
	ret := make([]http.Request, 0, len(lines))
	for i, l := range lines {
		ret = append(ret, t.Request(i, l))
	}
	return ret
}

// tagFunc substitutes the known tags. fasttemplate does not nest, so for a body such as {"host":"{line}"}
// the tag is `"host":"{line` and only the text after its last start tag can be a placeholder
func tagFunc(i int, line string) fasttemplate.TagFunc {
	return func(w io.Writer, tag string) (int, error) {
		prefix, name := "", tag
		if j := strings.LastIndex(tag, startTag); j >= 0 {
			prefix, name = startTag+tag[:j], tag[j+len(startTag):]
		}

		var value string
		switch name {
		case LineTag:
			value = line
		case IndexTag:
			value = strconv.Itoa(i)
		default:
			return io.WriteString(w, startTag+tag+endTag)
		}
		return io.WriteString(w, prefix+value)
	}
}
