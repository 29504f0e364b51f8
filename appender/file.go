package appender

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Philipp01105/treelog/core"
	"github.com/Philipp01105/treelog/layout"
)

// FileConfig holds configuration for FileAppender.
type FileConfig struct {
	// Name identifies the appender in configuration and diagnostics.
	Name string
	// Path is the log file path. Parent directories are created.
	Path string
	// Layout renders events (default: pattern DefaultPattern).
	Layout layout.Layout
	// Threshold drops events below this level before the filters run.
	Threshold core.Level
	// Filters is the appender's filter chain.
	Filters []Filter
	// Truncate opens the file truncated instead of appending.
	Truncate bool
	// MaxSize is the size in bytes that triggers rotation (0 = no rotation).
	MaxSize int64
	// MaxBackups is the number of rotated files to retain (0 = keep all).
	MaxBackups int
}

// FileAppender writes rendered events to a file, rotating it by size
// and pruning old backups.
type FileAppender struct {
	name      string
	path      string
	layout    layout.Layout
	threshold core.Level
	filters   []Filter

	maxSize    int64
	maxBackups int

	mu     sync.Mutex
	file   *os.File
	size   int64
	closed bool
}

// NewFileAppender opens the file and creates the appender.
func NewFileAppender(cfg FileConfig) (*FileAppender, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file appender %q: path is required", cfg.Name)
	}
	if cfg.Layout == nil {
		cfg.Layout = layout.NewPatternLayout(DefaultPattern)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if cfg.Truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	file, err := os.OpenFile(cfg.Path, flags, 0644)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	return &FileAppender{
		name:       cfg.Name,
		path:       cfg.Path,
		layout:     cfg.Layout,
		threshold:  cfg.Threshold,
		filters:    cfg.Filters,
		maxSize:    cfg.MaxSize,
		maxBackups: cfg.MaxBackups,
		file:       file,
		size:       info.Size(),
	}, nil
}

// Name returns the appender's configured name.
func (a *FileAppender) Name() string {
	return a.name
}

// Layout returns the appender's layout.
func (a *FileAppender) Layout() layout.Layout {
	return a.layout
}

// DoAppend renders the event and writes it to the file, rotating first
// when the size limit has been reached.
func (a *FileAppender) DoAppend(ev *core.Event) error {
	if !ev.Level.GreaterOrEqual(a.threshold) || !RunFilters(a.filters, ev) {
		return nil
	}

	buf := getBuffer()
	defer putBuffer(buf)
	if err := a.layout.Format(buf, ev); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	if err := a.rotateIfNeeded(); err != nil {
		return err
	}
	n, err := a.file.Write(buf.Bytes())
	a.size += int64(n)
	return err
}

// rotateIfNeeded rotates when the current file has reached MaxSize.
// Caller holds mu.
func (a *FileAppender) rotateIfNeeded() error {
	if a.maxSize <= 0 || a.size < a.maxSize {
		return nil
	}
	return a.rotate()
}

// rotate renames the current file with a timestamp suffix and reopens a
// fresh one. Caller holds mu.
func (a *FileAppender) rotate() error {
	if err := a.file.Sync(); err != nil {
		return err
	}
	if err := a.file.Close(); err != nil {
		return err
	}

	timestamp := time.Now().Format("2006-01-02T15-04-05.000000000")
	rotatedName := fmt.Sprintf("%s.%s", a.path, timestamp)

	if err := os.Rename(a.path, rotatedName); err != nil {
		// If rename fails, try to reopen the original file.
		file, openErr := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if openErr != nil {
			return fmt.Errorf("rotation failed: %v, reopen failed: %v", err, openErr)
		}
		a.file = file
		return err
	}

	if a.maxBackups > 0 {
		a.cleanupOldBackups()
	}

	file, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	a.file = file
	a.size = 0
	return nil
}

// cleanupOldBackups removes the oldest rotated files beyond MaxBackups.
func (a *FileAppender) cleanupOldBackups() {
	dir := filepath.Dir(a.path)
	base := filepath.Base(a.path)

	matches, err := filepath.Glob(filepath.Join(dir, base+".*"))
	if err != nil {
		return
	}

	var backups []string
	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(match), base+".") {
			backups = append(backups, match)
		}
	}

	sort.Slice(backups, func(i, j int) bool {
		infoI, errI := os.Stat(backups[i])
		infoJ, errJ := os.Stat(backups[j])
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().Before(infoJ.ModTime())
	})

	if len(backups) > a.maxBackups {
		for _, file := range backups[:len(backups)-a.maxBackups] {
			if err := os.Remove(file); err != nil {
				core.Diagf("file appender %q: removing backup %s: %v", a.name, file, err)
			}
		}
	}
}

// Close syncs and closes the file. Double-close is a no-op.
func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.file.Sync(); err != nil {
		a.file.Close()
		return err
	}
	return a.file.Close()
}
