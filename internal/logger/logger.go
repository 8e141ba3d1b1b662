package logger

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log flags
const (
	LstdFlags     = log.LstdFlags
	Lmicroseconds = log.Lmicroseconds
)

// Rotation limits for file output
const (
	maxLogSizeMB  = 100
	maxLogBackups = 7
	maxLogAgeDays = 14
)

// Logger wraps the standard log.Logger with additional functionality
type Logger struct {
	*log.Logger
	verbose bool
	closer  io.Closer
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Logger: log.New(os.Stdout, "", log.LstdFlags),
	}
}

// NewWriter creates a new logger that writes to the provided writer
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// NewFile creates a logger appending to a size-rotated file
func NewFile(path string) *Logger {
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		LocalTime:  true,
	}
	return &Logger{
		Logger: log.New(out, "", log.LstdFlags|log.Lmicroseconds),
		closer: out,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewWriter(io.Discard)
}

// SetOutput sets the output destination for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

// SetFlags sets the output flags for the logger
func (l *Logger) SetFlags(flag int) {
	l.Logger.SetFlags(flag)
}

// SetVerbose enables Verbosef output
func (l *Logger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

// Verbose reports whether diagnostic output is enabled
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Verbosef logs only when verbose output is enabled
func (l *Logger) Verbosef(format string, v ...interface{}) {
	if l.verbose {
		l.Printf(format, v...)
	}
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
