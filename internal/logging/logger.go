// Package logging provides categorized loggers for dashterm subsystems.
// Each category maps to a named zap logger; until Configure is called all
// output is discarded, so library code can log unconditionally.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Category identifies a dashterm subsystem for log routing.
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config loading
	CategoryAssist    Category = "assist"    // Orchestration pipeline
	CategoryAPI       Category = "api"       // LLM backend calls
	CategoryTools     Category = "tools"     // Tool host connections and calls
	CategoryEnrich    Category = "enrich"    // Entity reference resolution
	CategoryDispatch  Category = "dispatch"  // Command sequencing
	CategoryDashboard Category = "dashboard" // Interpreter, settings, hotkeys
	CategoryStore     Category = "store"     // Transcript persistence
)

// Logger is a thin printf-style facade over a zap sugared logger.
type Logger struct {
	s *zap.SugaredLogger
}

func (l *Logger) Debug(format string, args ...interface{}) { l.s.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.s.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.s.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.s.Errorf(format, args...) }

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	loggers = make(map[Category]*Logger)
)

// Configure installs the process-wide zap logger. Loggers handed out before
// Configure keep pointing at the old core, so call this once at startup
// before the pipeline is constructed.
func Configure(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	root = l
	loggers = make(map[Category]*Logger)
}

// Get returns the logger for a category, creating it on first use.
func Get(c Category) *Logger {
	mu.RLock()
	if l, ok := loggers[c]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[c]; ok {
		return l
	}
	l := &Logger{s: root.Named(string(c)).Sugar()}
	loggers[c] = l
	return l
}

// Sync flushes buffered log entries. Safe to call on a nop logger.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
