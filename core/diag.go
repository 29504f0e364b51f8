package core

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// The internal diagnostic log. Errors inside the framework (bad pattern
// keywords, appender write failures, probe errors) are reported here and
// never propagated to the application's log call.
var diag = struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
}{out: os.Stderr}

// SetDiagnosticOutput redirects internal diagnostics. Passing nil
// restores the default (stderr).
func SetDiagnosticOutput(w io.Writer) {
	diag.mu.Lock()
	if w == nil {
		w = os.Stderr
	}
	diag.out = w
	diag.mu.Unlock()
}

// SetDiagnosticQuiet suppresses internal diagnostics entirely.
func SetDiagnosticQuiet(quiet bool) {
	diag.mu.Lock()
	diag.quiet = quiet
	diag.mu.Unlock()
}

// Diagf writes an informational internal diagnostic.
func Diagf(format string, args ...interface{}) {
	writeDiag("treelog: ", format, args...)
}

// DiagErrorf writes an error-class internal diagnostic.
func DiagErrorf(format string, args ...interface{}) {
	writeDiag("treelog error: ", format, args...)
}

func writeDiag(prefix, format string, args ...interface{}) {
	diag.mu.Lock()
	defer diag.mu.Unlock()
	if diag.quiet {
		return
	}
	fmt.Fprintf(diag.out, prefix+format+"\n", args...)
}
