package components

import (
	"strings"
	"testing"

	"github.com/kerbaras/comicenc/pkg/services"
)

func TestNewProgressTracker(t *testing.T) {
	tracker := NewProgressTracker(30)

	if tracker == nil {
		t.Fatal("Expected tracker to be created")
	}

	if tracker.width != 30 {
		t.Errorf("Expected width 30, got %d", tracker.width)
	}

	if len(tracker.volumes) != 0 {
		t.Errorf("Expected 0 volumes, got %d", len(tracker.volumes))
	}
}

func TestUpdate(t *testing.T) {
	tracker := NewProgressTracker(30)

	progress := services.VolumeProgress{
		Volume:  1,
		Volumes: 3,
		Name:    "1",
		Status:  "writing",
		Page:    5,
		Pages:   10,
	}

	tracker.Update(progress)

	if !tracker.HasActive() {
		t.Error("Expected tracker to have active volumes")
	}

	// Later progress of the same volume replaces the earlier one
	progress.Page = 6
	tracker.Update(progress)

	if len(tracker.volumes) != 1 {
		t.Errorf("Expected 1 volume, got %d", len(tracker.volumes))
	}
	if tracker.volumes[1].Page != 6 {
		t.Errorf("Expected page 6, got %d", tracker.volumes[1].Page)
	}
}

func TestUpdateRemovesFinished(t *testing.T) {
	for _, status := range []string{"complete", "skipped", "error"} {
		t.Run(status, func(t *testing.T) {
			tracker := NewProgressTracker(30)
			tracker.Update(services.VolumeProgress{Volume: 2, Status: "listing"})

			tracker.Update(services.VolumeProgress{Volume: 2, Status: status})

			if tracker.HasActive() {
				t.Errorf("Expected %s volume to be removed", status)
			}
		})
	}
}

func TestClear(t *testing.T) {
	tracker := NewProgressTracker(30)

	for i := 1; i <= 3; i++ {
		tracker.Update(services.VolumeProgress{Volume: i, Status: "writing"})
	}

	if len(tracker.volumes) != 3 {
		t.Errorf("Expected 3 volumes, got %d", len(tracker.volumes))
	}

	tracker.Clear()

	if tracker.HasActive() {
		t.Error("Expected no active volumes after clear")
	}
}

func TestLineEmpty(t *testing.T) {
	tracker := NewProgressTracker(30)

	if line := tracker.Line(); line != "" {
		t.Errorf("Expected empty line, got: %s", line)
	}
}

func TestLineWithProgress(t *testing.T) {
	tracker := NewProgressTracker(20)

	tracker.Update(services.VolumeProgress{
		Volume:  4,
		Volumes: 12,
		Name:    "04",
		Status:  "writing",
		Page:    10,
		Pages:   40,
	})

	line := tracker.Line()

	if !strings.Contains(line, "Volume 04 / 12") {
		t.Errorf("Expected volume name in line, got: %s", line)
	}
	if !strings.Contains(line, "10/40 pages - 25%") {
		t.Errorf("Expected page progress in line, got: %s", line)
	}
	if strings.Contains(line, "\n") {
		t.Error("Expected a single line")
	}
	if filled := strings.Count(line, "█"); filled != 5 {
		t.Errorf("Expected 5 filled chars, got %d", filled)
	}
}

func TestLineWhileListing(t *testing.T) {
	tracker := NewProgressTracker(20)

	tracker.Update(services.VolumeProgress{Volume: 1, Volumes: 1, Name: "'book'", Status: "listing"})

	line := tracker.Line()
	if !strings.Contains(line, "listing") {
		t.Errorf("Expected status in line, got: %s", line)
	}
	if strings.Contains(line, "░") {
		t.Error("Expected no bar before pages are known")
	}
}

func TestLineOrdersVolumes(t *testing.T) {
	tracker := NewProgressTracker(10)

	for _, v := range []int{3, 1, 2} {
		tracker.Update(services.VolumeProgress{Volume: v, Volumes: 3, Name: string(rune('0' + v)), Status: "listing"})
	}

	line := tracker.Line()
	first := strings.Index(line, "Volume 1")
	second := strings.Index(line, "Volume 2")
	third := strings.Index(line, "Volume 3")
	if first < 0 || !(first < second && second < third) {
		t.Errorf("Expected volumes in order, got: %s", line)
	}
}

func TestRenderProgressBarZeroTotal(t *testing.T) {
	bar := renderProgressBar(0, 0, 20)

	if bar != "" {
		t.Errorf("Expected empty string for zero total, got: %s", bar)
	}
}

func TestRenderProgressBarFull(t *testing.T) {
	bar := renderProgressBar(100, 100, 20)

	if filled := strings.Count(bar, "█"); filled != 20 {
		t.Errorf("Expected 20 filled chars, got %d", filled)
	}
	if strings.Contains(bar, "░") {
		t.Error("Expected no empty chars")
	}
}

func TestRenderProgressBarPartial(t *testing.T) {
	bar := renderProgressBar(25, 100, 40)

	filled := strings.Count(bar, "█")
	empty := strings.Count(bar, "░")

	if filled != 10 || empty != 30 {
		t.Errorf("Expected 10 filled and 30 empty chars, got %d and %d", filled, empty)
	}
}
