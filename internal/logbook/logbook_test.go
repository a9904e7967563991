package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journey.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	defer book.Close()

	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestEntriesCarryLevelAndTimestamp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journey.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Info("merged %d values", 5)
	book.Warn("rejected input %q", "abc")
	if err := book.Close(); err != nil {
		t.Fatalf("close logbook: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "INFO") || !strings.Contains(text, "merged 5 values") {
		t.Fatalf("missing info entry:\n%s", text)
	}
	if !strings.Contains(text, "WARN") || !strings.Contains(text, `rejected input "abc"`) {
		t.Fatalf("missing warn entry:\n%s", text)
	}
	// Entries are line oriented and start with an RFC3339 UTC stamp.
	first := strings.SplitN(text, "\n", 2)[0]
	if !strings.Contains(first, "T") || !strings.Contains(first, "Z") {
		t.Fatalf("first line has no UTC timestamp: %q", first)
	}
}

func TestNewCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "logs", "journey.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	defer book.Close()
	if book.Path() != path {
		t.Fatalf("Path() = %q, want %q", book.Path(), path)
	}
	book.Info("hello")
	if lines := book.Tail(1); len(lines) != 1 {
		t.Fatalf("expected one line back, got %v", lines)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	book.Warn("ignored")
	book.Error("ignored")
	if got := book.Path(); got != "" {
		t.Fatalf("nil Path() = %q, want empty", got)
	}
	if lines := book.Tail(5); lines != nil {
		t.Fatalf("nil Tail() = %v, want nil", lines)
	}
	if err := book.Close(); err != nil {
		t.Fatalf("nil Close() = %v, want nil", err)
	}
}
