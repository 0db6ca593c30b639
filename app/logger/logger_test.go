package logger

import (
	"fmt"
	"testing"
)

func TestEmitBuffersEntries(t *testing.T) {
	l := New()

	l.Info("first", nil)
	l.Success("second", map[string]any{"count": 5})

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != LevelInfo {
		t.Errorf("Expected level 'info', got '%s'", entries[0].Level)
	}
	if entries[1].Message != "second" {
		t.Errorf("Expected message 'second', got '%s'", entries[1].Message)
	}
	if entries[1].Data["count"] != 5 {
		t.Errorf("Expected data count 5, got %v", entries[1].Data["count"])
	}
}

func TestBufferCapped(t *testing.T) {
	l := New()

	for i := 0; i < maxBufferedEntries+50; i++ {
		l.Info(fmt.Sprintf("entry %d", i), nil)
	}

	entries := l.Entries()
	if len(entries) != maxBufferedEntries {
		t.Errorf("Expected buffer capped at %d, got %d", maxBufferedEntries, len(entries))
	}
	if entries[0].Message != "entry 50" {
		t.Errorf("Expected oldest entry to be 'entry 50', got '%s'", entries[0].Message)
	}
}

func TestSetCurrentTask(t *testing.T) {
	l := New()

	l.SetCurrentTask("task-1")
	l.Processing("working", nil)
	l.SetCurrentTask("")
	l.Info("done", nil)

	entries := l.Entries()
	if entries[0].TaskID != "task-1" {
		t.Errorf("Expected task id 'task-1', got '%s'", entries[0].TaskID)
	}
	if entries[1].TaskID != "" {
		t.Errorf("Expected empty task id, got '%s'", entries[1].TaskID)
	}
}

func TestSubscribeReceivesEntries(t *testing.T) {
	l := New()

	ch, cancel := l.Subscribe()
	defer cancel()

	l.Warning("heads up", nil)

	entry := <-ch
	if entry.Level != LevelWarning {
		t.Errorf("Expected level 'warning', got '%s'", entry.Level)
	}
	if entry.Message != "heads up" {
		t.Errorf("Expected message 'heads up', got '%s'", entry.Message)
	}
}

func TestEmitDoesNotBlockOnSlowSubscriber(t *testing.T) {
	l := New()

	_, cancel := l.Subscribe()
	defer cancel()

	// Overflow the subscriber channel; Emit must keep returning.
	for i := 0; i < 200; i++ {
		l.Info("flood", nil)
	}

	if len(l.Entries()) != 200 {
		t.Errorf("Expected 200 buffered entries, got %d", len(l.Entries()))
	}
}

func TestClear(t *testing.T) {
	l := New()

	l.Info("one", nil)
	l.Clear()

	if len(l.Entries()) != 0 {
		t.Errorf("Expected empty buffer after clear, got %d entries", len(l.Entries()))
	}
}
