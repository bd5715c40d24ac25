// Package logging defines the sink the core packages report
// non-fatal conditions to (failed scratch cleanup, skipped recent
// entries). The CLI injects a terminal-backed sink; tests use Nop.
package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Logger is a fire-and-forget sink. Implementations must be safe for
// concurrent use.
type Logger interface {
	Log(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// New returns a Logger writing colorized lines to w.
func New(w io.Writer) Logger {
	return &writerLogger{w: w}
}

type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *writerLogger) Log(format string, args ...any) {
	l.write("", fmt.Sprintf(format, args...))
}

func (l *writerLogger) Warn(format string, args ...any) {
	l.write(color.YellowString("!"), fmt.Sprintf(format, args...))
}

func (l *writerLogger) Error(format string, args ...any) {
	l.write(color.RedString("✗"), fmt.Sprintf(format, args...))
}

func (l *writerLogger) write(prefix, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prefix != "" {
		fmt.Fprintln(l.w, prefix, msg)
		return
	}
	fmt.Fprintln(l.w, msg)
}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Log(string, ...any)   {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
