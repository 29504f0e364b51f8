package core

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strconv"
)

// CallerInfo contains information about the call site of a log call.
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// CaptureCaller retrieves caller information skip frames up the stack.
func CaptureCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}

	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}

var goroutinePrefix = []byte("goroutine ")

// GoroutineID returns the numeric id of the calling goroutine, parsed
// from the runtime stack header. Go deliberately hides goroutine ids;
// they appear in events purely as a diagnostic label, never for control
// flow. Returns 0 when the header cannot be parsed.
func GoroutineID() uint64 {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(s, ' '); i > 0 {
		if id, err := strconv.ParseUint(string(s[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}
