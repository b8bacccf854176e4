package components

import (
	"strings"
	"testing"
	"time"

	"github.com/kerbaras/comicenc/pkg/data"
)

func TestHistoryTable(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	records := []*data.VolumeRecord{
		{
			ID:        "6f1c2a8e-0000-4000-8000-000000000002",
			Path:      "/library/Volume-02.cbz",
			Method:    "compile",
			Volume:    2,
			Chapters:  10,
			Pages:     240,
			Bytes:     52_000_000,
			Format:    "cbz",
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			Path:      "/library/Volume-01.cbz",
			Method:    "compile",
			Volume:    1,
			Chapters:  10,
			Pages:     230,
			Bytes:     48_000_000,
			Format:    "cbz",
			CreatedAt: now.Add(-3 * time.Hour),
		},
	}

	view := HistoryTable(records, false, now)

	for _, want := range []string{"ID", "6f1c2a8e-0000-4000-8000-000000000002", "File", "Volume-02.cbz", "Volume-01.cbz", "compile", "240", "52 MB", "2 hours ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected '%s' in table, got:\n%s", want, view)
		}
	}

	if strings.Contains(view, "/library") {
		t.Error("Expected file names without their directory")
	}

	if strings.Index(view, "Volume-02.cbz") > strings.Index(view, "Volume-01.cbz") {
		t.Error("Expected records in the given order")
	}
}

func TestHistoryTableEmpty(t *testing.T) {
	view := HistoryTable(nil, false, time.Now())

	if !strings.Contains(view, "Method") {
		t.Errorf("Expected table header, got:\n%s", view)
	}
}
