// Package logging provides the small leveled wrapper around the standard
// logger used across codesight. No structured logger appears anywhere in
// the reference corpus for this kind of CLI-first tool, so plain prefixed
// log.Logger output is the idiom to follow.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger prints INFO/WARN/ERROR lines to an underlying writer.
type Logger struct {
	out     *log.Logger
	verbose bool
}

// New creates a Logger writing to w. When verbose is false, Info messages
// are suppressed (Warn/Error always print).
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags), verbose: verbose}
}

// Default returns a Logger writing to stderr.
func Default(verbose bool) *Logger {
	return New(os.Stderr, verbose)
}

func (l *Logger) Info(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.out.Print("INFO  " + fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.out.Print("WARN  " + fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.out.Print("ERROR " + fmt.Sprintf(format, args...))
}
