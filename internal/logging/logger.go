// Package logging builds the process zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction
type Options struct {
	Level      string
	File       string // optional rotating log file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// globalMu protects writes to the zerolog global logger
var globalMu sync.Mutex

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates the process logger and installs it as the zerolog global.
// The returned closer flushes the log file, if any.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	writer := selectOutput()
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		fileWriter, err := createFileWriter(opts)
		if err != nil {
			logger := NewWithWriter(level, writer)
			return logger, closer, err
		}
		writer = zerolog.MultiLevelWriter(writer, fileWriter)
		closer = fileWriter
	}

	return NewWithWriter(level, writer), closer, nil
}

// NewWithWriter creates a logger on w and installs it as the zerolog global.
func NewWithWriter(level zerolog.Level, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()

	globalMu.Lock()
	log.Logger = logger
	globalMu.Unlock()

	return logger
}

// selectOutput uses a console writer on a TTY unless NO_COLOR is set,
// JSON on stderr otherwise.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.DateTime,
		}
	}
	return os.Stderr
}

func createFileWriter(opts Options) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}, nil
}
