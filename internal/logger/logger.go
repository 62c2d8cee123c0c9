package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger: pretty console output in development, JSON lines in
// production. An unknown level falls back to info.
func New(production bool, level string) zerolog.Logger {
	return NewWithWriter(os.Stderr, production, level)
}

func NewWithWriter(w io.Writer, production bool, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	out := w
	if !production {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
