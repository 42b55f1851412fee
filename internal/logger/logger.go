package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	isDevelopment = false // human readable output when set

	out io.Writer = os.Stderr

	AdHocLogger zerolog.Logger

	once sync.Once

	globalLogger zerolog.Logger
)

func init() {
	// A general logger for places where a service logger has not been set up
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	AdHocLogger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "ad-hoc-logger").Caller().Logger()
}

// GetLogger returns the process wide logger, building it on first use.
func GetLogger(serviceName string) zerolog.Logger {
	once.Do(func() {
		globalLogger = New(serviceName, out, isDevelopment)
	})
	return globalLogger
}

// New builds a logger writing to w. In development mode the output is the
// console format at trace level, otherwise JSON at info level.
func New(serviceName string, w io.Writer, development bool) zerolog.Logger {
	if !development {
		return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Str("service", serviceName).Logger()
	}

	consoleWriter := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339,
		FormatLevel: func(i any) string {
			return strings.ToUpper(fmt.Sprintf("[%5s]", i))
		},
		FormatMessage: func(i any) string {
			return fmt.Sprintf("| %s |", i)
		},
		FormatCaller: func(i any) string {
			return filepath.Base(fmt.Sprintf("%s", i))
		},
		PartsExclude: []string{
			zerolog.TimestampFieldName,
		}}
	return zerolog.New(consoleWriter).Level(zerolog.TraceLevel).With().Timestamp().Str("service", serviceName).Caller().Logger()
}

func SetDevelopment(value bool) {
	isDevelopment = value
}

// SetOutput changes where GetLogger writes. It has no effect once the
// global logger was built.
func SetOutput(w io.Writer) {
	out = w
}
