package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Logger struct {
	info   *log.Logger
	warn   *log.Logger
	err    *log.Logger
	errMu  sync.Mutex
	errW   io.WriteCloser
	silent bool
}

// New writes every level to stderr, keeping stdout for results. ERROR is
// also appended to errorsPath.
// An empty errorsPath disables the file.
func New(errorsPath string, silent bool) (*Logger, error) {
	if errorsPath == "" {
		l := NewWriter(os.Stderr)
		l.silent = silent
		return l, nil
	}

	// Clear the log file on startup
	if err := os.Truncate(errorsPath, 0); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	f, err := os.OpenFile(errorsPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	// Write errors to both stdout and file
	errWriter := io.MultiWriter(os.Stderr, f)
	l := &Logger{
		info:   log.New(os.Stderr, "INFO ", log.LstdFlags|log.Lmicroseconds),
		warn:   log.New(os.Stderr, "WARN ", log.LstdFlags|log.Lmicroseconds),
		err:    log.New(errWriter, "ERROR ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		errW:   f,
		silent: silent,
	}
	return l, nil
}

// NewWriter sends every level to w.
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		info: log.New(w, "INFO ", log.LstdFlags|log.Lmicroseconds),
		warn: log.New(w, "WARN ", log.LstdFlags|log.Lmicroseconds),
		err:  log.New(w, "ERROR ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
	}
}

func (l *Logger) Close() error {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	if l.errW != nil {
		err := l.errW.Close()
		l.errW = nil
		return err
	}
	return nil
}

// Infof is dropped in silent mode.
func (l *Logger) Infof(format string, args ...any) {
	if l.silent {
		return
	}
	l.info.Printf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.warn.Printf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	l.err.Output(2, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(err error) {
	if err == nil {
		return
	}
	l.Errorf("%v", err)
}
