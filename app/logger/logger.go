package logger

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo       Level = "info"
	LevelSuccess    Level = "success"
	LevelWarning    Level = "warning"
	LevelError      Level = "error"
	LevelProcessing Level = "processing"
)

const maxBufferedEntries = 1000

// Entry is a single pipeline log event as delivered to subscribers.
type Entry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	TaskID    string         `json:"taskId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Logger fans pipeline events out to subscribers while mirroring them to
// slog. Emission never blocks: subscribers with full channels miss entries.
type Logger struct {
	mu          sync.Mutex
	entries     []Entry
	currentTask string
	subscribers map[chan Entry]struct{}
}

func New() *Logger {
	return &Logger{
		subscribers: make(map[chan Entry]struct{}),
	}
}

// SetCurrentTask attaches a task id to subsequent entries. Pass the empty
// string to clear.
func (l *Logger) SetCurrentTask(taskID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.currentTask = taskID
}

func (l *Logger) Emit(level Level, message string, data map[string]any) {
	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Data:      data,
	}

	l.mu.Lock()
	entry.TaskID = l.currentTask
	l.entries = append(l.entries, entry)
	if len(l.entries) > maxBufferedEntries {
		l.entries = l.entries[len(l.entries)-maxBufferedEntries:]
	}
	for ch := range l.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
	l.mu.Unlock()

	attrs := make([]any, 0, 2*len(data)+2)
	attrs = append(attrs, "level", string(level))
	for k, v := range data {
		attrs = append(attrs, k, v)
	}

	switch level {
	case LevelWarning:
		slog.Warn(message, attrs...)
	case LevelError:
		slog.Error(message, attrs...)
	default:
		slog.Info(message, attrs...)
	}
}

func (l *Logger) Info(message string, data map[string]any) {
	l.Emit(LevelInfo, message, data)
}

func (l *Logger) Success(message string, data map[string]any) {
	l.Emit(LevelSuccess, message, data)
}

func (l *Logger) Warning(message string, data map[string]any) {
	l.Emit(LevelWarning, message, data)
}

func (l *Logger) Error(message string, data map[string]any) {
	l.Emit(LevelError, message, data)
}

func (l *Logger) Processing(message string, data map[string]any) {
	l.Emit(LevelProcessing, message, data)
}

// Entries returns a copy of the buffered history.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Subscribe registers a listener channel. The returned function removes the
// subscription and closes the channel.
func (l *Logger) Subscribe() (<-chan Entry, func()) {
	ch := make(chan Entry, 64)

	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		if _, ok := l.subscribers[ch]; ok {
			delete(l.subscribers, ch)
			close(ch)
		}
		l.mu.Unlock()
	}

	return ch, cancel
}
