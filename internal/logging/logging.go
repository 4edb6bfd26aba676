package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// Logger is the application logger. A nil *Logger discards everything.
type Logger struct {
	base zerolog.Logger
}

func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var output io.Writer
	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	case FormatJSON:
		output = writer
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return &Logger{base: zerolog.New(output).Level(level).With().Timestamp().Logger()}, nil
}

// Nop returns a logger that writes nothing.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// With returns a derived logger that always writes the supplied fields.
func (l *Logger) With(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}

	builder := l.base.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
	}
	return &Logger{base: builder.Logger()}
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.base.Debug().Fields(fields).Msg(msg)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.base.Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.base.Warn().Fields(fields).Msg(msg)
}

func (l *Logger) Error(err error, msg string, fields map[string]any) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Fields(fields).Msg(msg)
}
