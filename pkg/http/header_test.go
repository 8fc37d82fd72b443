package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  Headers
	}{
		{"empty", "", nil},
		{"single", "X-Trace: abc123", Headers{{"X-Trace", "abc123"}}},
		{"no space", "X-Trace:abc123", Headers{{"X-Trace", "abc123"}}},
		{"spaces and tabs trimmed", " \tX-Trace \t: \tabc123\t ", Headers{{"X-Trace", "abc123"}}},
		{"split on first colon", "Referer: http://foo.com:80/x", Headers{{"Referer", "http://foo.com:80/x"}}},
		{"multiple lines", "A: 1\nB: 2", Headers{{"A", "1"}, {"B", "2"}}},
		{"duplicates kept", "A: 1\na: 2\nA: 3", Headers{{"A", "1"}, {"a", "2"}, {"A", "3"}}},
		{"line without colon dropped", "A: 1\ngarbage\nB: 2", Headers{{"A", "1"}, {"B", "2"}}},
		{"blank lines dropped", "\n\nA: 1\n\n", Headers{{"A", "1"}}},
		{"carriage return is not trimmed", "A: 1\r\nB: 2\r", Headers{{"A", "1\r"}, {"B", "2\r"}}},
		{"empty value", "A:", Headers{{"A", ""}}},
		{"empty key kept", ": v", Headers{{"", "v"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHeaders(tt.block))
		})
	}
}

func TestHeaders_CaseInsensitive(t *testing.T) {
	hh := ParseHeaders("Content-Type: text/plain\nX-Dup: 1\nx-dup: 2")

	assert.Equal(t, "text/plain", hh.Get("content-type"))
	assert.Equal(t, "text/plain", hh.Get("CONTENT-TYPE"))
	assert.True(t, hh.Has("x-DUP"))
	assert.False(t, hh.Has("missing"))
	assert.Equal(t, "", hh.Get("missing"))
	assert.Equal(t, []string{"1", "2"}, hh.Values("X-Dup"))

	hh.Add("X-DUP", "3")
	assert.Equal(t, []string{"1", "2", "3"}, hh.Values("x-dup"))
}

func TestHeader_String(t *testing.T) {
	assert.Equal(t, "X-Trace: abc123", Header{"X-Trace", "abc123"}.String())
}
