package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MauroVanHoutte/FlowField/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\") error = %v", err)
	}
	if om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, want nil", om)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry() error = %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager() error = %v", err)
	}

	for _, end := range []int32{60, 120, 180} {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: end, Agents: 5}); err != nil {
			t.Fatalf("WriteTelemetry() error = %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkSettled, Tick: 180}); err != nil {
		t.Fatalf("WriteBookmark() error = %v", err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("header = %q, want window_end first", lines[0])
	}
	if got := strings.Count(string(data), "window_end"); got != 1 {
		t.Errorf("header written %d times, want 1", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
	bookmarks, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatalf("reading bookmarks.csv: %v", err)
	}
	if !strings.Contains(string(bookmarks), string(BookmarkSettled)) {
		t.Errorf("bookmarks.csv = %q, want %q row", bookmarks, BookmarkSettled)
	}
}
