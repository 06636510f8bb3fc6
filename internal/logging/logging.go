package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Options struct {
	Level   zerolog.Level
	NoColor bool
}

// New returns a console logger tagged with a fresh invocation id.
func New(w io.Writer, opts Options) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    opts.NoColor,
		TimeFormat: time.TimeOnly,
	}

	return zerolog.New(writer).
		Level(opts.Level).
		With().
		Timestamp().
		Str("invocation", InvocationID()).
		Logger()
}

// InvocationID is a short id correlating every log line of one run.
func InvocationID() string {
	id := uuid.New().String()
	return id[:8]
}
