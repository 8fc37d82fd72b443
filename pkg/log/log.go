package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type LogFormat string

var (
	Pretty LogFormat = "pretty"
	JSON   LogFormat = "json"
	Text   LogFormat = "text"
)

// consoleTimeFormat keeps pretty output short enough to sit next to a progress bar
const consoleTimeFormat = "\r3:04PM"

var (
	stderr = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)

	globalFormat = JSON

	Fatal = stderr.Fatal
	Error = stderr.Error
	Warn  = stderr.Warn
	Info  = stderr.Info
	Debug = stderr.Debug
	Trace = stderr.Trace

	Err  = stderr.Err
	With = stderr.With
)

const (
	FatalLevel = zerolog.FatalLevel
	ErrorLevel = zerolog.ErrorLevel
	WarnLevel  = zerolog.WarnLevel
	InfoLevel  = zerolog.InfoLevel
	DebugLevel = zerolog.DebugLevel
	TraceLevel = zerolog.TraceLevel
)

var (
	ErrUnsupportedFormat = fmt.Errorf("unsupported format. supported 'json', 'pretty', 'text'")
)

// rebind points the package level helpers at the current logger. zerolog loggers are values, so the
// method values captured at init would otherwise keep logging with the old level and writer
func rebind() {
	Fatal = stderr.Fatal
	Error = stderr.Error
	Warn = stderr.Warn
	Info = stderr.Info
	Debug = stderr.Debug
	Trace = stderr.Trace
	Err = stderr.Err
	With = stderr.With
}

// SetLevelString parses one of trace, debug, info, warn, error, fatal and applies it
func SetLevelString(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	SetLevel(l)
	return nil
}

func SetLevel(l zerolog.Level) {
	stderr = stderr.Level(l)
	rebind()
}

func GetLevel() zerolog.Level {
	return stderr.GetLevel()
}

// SetWriter replaces the log destination. Tests use this to capture output
func SetWriter(w io.Writer) {
	stderr = stderr.Output(w)
	rebind()
}

func GetLogFormat() LogFormat {
	return globalFormat
}

func SetFormat(format string) error {
	switch format {
	case "json", "":
		stderr = stderr.Output(os.Stderr)
		globalFormat = JSON
	case "pretty":
		stderr = stderr.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false, TimeFormat: consoleTimeFormat})
		globalFormat = Pretty
	case "text":
		stderr = stderr.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true, TimeFormat: consoleTimeFormat})
		globalFormat = Text
	default:
		return ErrUnsupportedFormat
	}
	rebind()
	return nil
}
