package http

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

// headerCutset is the only whitespace trimmed from header keys and values. \r is not trimmed
const headerCutset = " \t"

// Header encapsulates a header key value entry
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered multi-map of headers. Lookups are case-insensitive on the key
// and duplicate keys are kept as separate entries
type Headers []Header

// ParseHeaders will parse a newline delimited block of "Key: Value" lines.
// Each line is split on the first colon and both sides are trimmed of spaces and tabs.
// Lines without a colon are silently dropped. Empty keys are kept; it is up to the
// writer to decide what to do with them.
func ParseHeaders(block string) Headers {
	var ret Headers
	for _, line := range strings.Split(block, "\n") {
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		ret = append(ret, Header{
			Key:   strings.Trim(line[:i], headerCutset),
			Value: strings.Trim(line[i+1:], headerCutset),
		})
	}
	return ret
}

// Add appends a header, keeping any existing entries with the same key
func (hh *Headers) Add(key, value string) {
	*hh = append(*hh, Header{Key: key, Value: value})
}

// Get returns the first value for the key, matched case-insensitively
func (hh Headers) Get(key string) string {
	for _, h := range hh {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}

// Values returns every value for the key in insertion order
func (hh Headers) Values(key string) []string {
	var ret []string
	for _, h := range hh {
		if strings.EqualFold(h.Key, key) {
			ret = append(ret, h.Value)
		}
	}
	return ret
}

func (hh Headers) Has(key string) bool {
	for _, h := range hh {
		if strings.EqualFold(h.Key, key) {
			return true
		}
	}
	return false
}

func (hh Headers) MarshalZerologArray(a *zerolog.Array) {
	for _, h := range hh {
		a.Object(h)
	}
}

func (h Header) MarshalZerologObject(e *zerolog.Event) {
	e.Str("k", h.Key).
		Str("v", h.Value)
}

func (h Header) AppendBytes(b []byte) []byte {
	b = append(b, h.Key...)
	b = append(b, ": "...)
	b = append(b, h.Value...)
	return b
}

func (h Header) String() string {
	w := bytebufferpool.Get()
	w.B = h.AppendBytes(w.B)
	ret := string(w.B)
	bytebufferpool.Put(w)
	return ret
}
