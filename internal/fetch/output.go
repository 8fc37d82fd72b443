package fetch

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/httpfn/httpfn/pkg/http"
	"github.com/olekukonko/tablewriter"
)

type Format int

const (
	Unknown Format = iota
	Pretty
	Plain
	JSON
)

var (
	ErrInvalidFormat = fmt.Errorf("unknown format")
)

// nullText renders a sql NULL in the pretty and plain formats
const nullText = "NULL"

func FormatFromString(in string) (Format, error) {
	switch strings.ToLower(in) {
	case "pretty", "":
		return Pretty, nil
	case "plain", "text":
		return Plain, nil
	case "json":
		return JSON, nil
	}
	return Unknown, ErrInvalidFormat
}

func TabString(fields ...string) string {
	return strings.Join(fields, "\t")
}

type resultJSON struct {
	Row       int    `json:"row"`
	Method    string `json:"method"`
	URL       string `json:"url"`
	Status    int    `json:"status,omitempty"`
	Size      int    `json:"size"`
	Redirects int    `json:"redirects"`
	Body      string `json:"body,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newResultJSON(r http.Result) resultJSON {
	ret := resultJSON{
		Row:    r.Index,
		Method: r.Request.Method,
		URL:    r.Request.URL,
	}
	if ret.Method == "" {
		ret.Method = http.MethodGet
	}
	if r.Response != nil {
		ret.Status = r.Response.StatusCode
		ret.Size = len(r.Response.Body)
		ret.Redirects = r.Response.Redirects
		ret.Body = string(r.Response.Body)
	}
	if r.Err != nil {
		ret.Error = r.Err.Error()
	}
	return ret
}

func (r resultJSON) fields() []string {
	status := "-"
	if r.Status != 0 {
		status = strconv.Itoa(r.Status)
	}
	return []string{
		strconv.Itoa(r.Row),
		r.Method,
		r.URL,
		status,
		humanize.Bytes(uint64(r.Size)),
		strconv.Itoa(r.Redirects),
		r.Error,
	}
}

var resultHeader = []string{"row", "method", "url", "status", "size", "redirects", "error"}

// WriteResults renders one line per batch row. Bodies are only included in the json format
func WriteResults(w io.Writer, f Format, rr http.Results) error {
	switch f {
	case Plain:
		for _, r := range rr {
			if _, err := fmt.Fprintln(w, TabString(newResultJSON(r).fields()...)); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
		}
	case JSON:
		enc := json.NewEncoder(w)
		for _, r := range rr {
			if err := enc.Encode(newResultJSON(r)); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
		}
	case Pretty:
		fallthrough
	default:
		table := tablewriter.NewWriter(w)
		table.SetHeader(resultHeader)
		for _, r := range rr {
			table.Append(newResultJSON(r).fields())
		}
		table.Render()
	}
	return nil
}

// WriteRows renders the rows of a query. values holds nil, string, int64, float64 or bool
func WriteRows(w io.Writer, f Format, columns []string, rows [][]interface{}) error {
	switch f {
	case Plain:
		for _, row := range rows {
			if _, err := fmt.Fprintln(w, TabString(textRow(row)...)); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	case JSON:
		enc := json.NewEncoder(w)
		for _, row := range rows {
			obj := make(map[string]interface{}, len(columns))
			for i, c := range columns {
				obj[c] = row[i]
			}
			if err := enc.Encode(obj); err != nil {
				return fmt.Errorf("failed to encode row: %w", err)
			}
		}
	case Pretty:
		fallthrough
	default:
		table := tablewriter.NewWriter(w)
		table.SetHeader(columns)
		table.SetAutoWrapText(false)
		for _, row := range rows {
			table.Append(textRow(row))
		}
		table.Render()
	}
	return nil
}

func textRow(row []interface{}) []string {
	ret := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			ret[i] = nullText
			continue
		}
		ret[i] = fmt.Sprint(v)
	}
	return ret
}
