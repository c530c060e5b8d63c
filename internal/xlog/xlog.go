// Package xlog centralises momemta-go's console reporting, the way
// gofem's fem.Start/fem.Stop/fem.PanicOrNot route every user-facing
// message through github.com/cpmech/gosl/io and gosl/utl instead of
// scattering fmt.Println across packages.
package xlog

import (
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Logger is the console reporting surface used by the graph builder,
// execution engine and CLI.
type Logger struct {
	mu      sync.Mutex
	verbose bool
}

// New returns a Logger. Non-verbose loggers stay silent on Info
// but still print Warnf/Errorf/Fatalf, mirroring fem.Start's
// "!global.Root => Verbose = false" rule: warnings and errors are never
// swallowed, only progress chatter is.
func New(verbose bool) *Logger {
	return &Logger{verbose: verbose}
}

// Info prints a progress message in white, only when verbose.
func (l *Logger) Info(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	utl.PfWhite(format, args...)
}

// Warnf prints a warning in magenta.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	utl.PfMag("WARNING: "+format, args...)
}

// Errorf prints an error in red.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	utl.PfRed("ERROR: "+format, args...)
}

// Fatalf prints in red, then panics through gosl/chk.Panic, the same
// fatal-error primitive msolid and inp/sim.go call into.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.mu.Lock()
	msg := io.Sf(format, args...)
	l.mu.Unlock()
	utl.PfRed("FATAL: %s\n", msg)
	chk.Panic("%s", msg)
}

// Default is a silent logger, used when the caller hasn't supplied one.
var Default = New(false)
