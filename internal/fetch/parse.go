package fetch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/httpfn/httpfn/pkg/log"
)

// StdinInput is the input name that reads lines from stdin
const StdinInput = "-"

// ParseInput will return every input line for a batch.
// "-" reads stdin. Otherwise we attempt to find a file matching in, and if there is none
// in itself is treated as the only line
func ParseInput(in string) ([]string, error) {
	if in == StdinInput {
		return ParseLines(os.Stdin)
	}
	ret, err := ParseFile(in)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("file", in).Msg("file not found. treating as a single line")
		return []string{in}, nil
	}
	return ret, err
}

// ParseFile will read every line of the file
func ParseFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseLines(file)
}

// ParseLines reads one input per line. Surrounding whitespace is trimmed, and blank lines or lines starting
// with # are skipped
func ParseLines(r io.Reader) ([]string, error) {
	ret := make([]string, 0)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ret = append(ret, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return ret, nil
}
