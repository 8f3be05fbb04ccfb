// backend-go/pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger

	output  io.Writer
	level   = zerolog.InfoLevel
	service = "furnicast"
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	// Default to console output with color
	SetOutput(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	})
}

// SetOutput replaces the writer of the global logger. The package-level
// zerolog/log logger used by internal packages is pointed at the same writer.
func SetOutput(w io.Writer) {
	output = w
	rebuild()
}

// UseJSON switches to newline delimited JSON on stdout.
func UseJSON() {
	SetOutput(os.Stdout)
}

// SetService names the binary in every log line.
func SetService(name string) {
	service = name
	rebuild()
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	parsed, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		parsed = zerolog.InfoLevel
	}
	level = parsed
	zerolog.SetGlobalLevel(level)
	rebuild()
}

func rebuild() {
	Log = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Caller().
		Str("service", service).
		Logger()
	log.Logger = Log
}
