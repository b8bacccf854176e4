package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kerbaras/comicenc/pkg/app/styles"
	"github.com/kerbaras/comicenc/pkg/services"
)

// ProgressTracker keeps the latest progress of the volumes being built.
type ProgressTracker struct {
	volumes map[int]*services.VolumeProgress
	width   int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		volumes: make(map[int]*services.VolumeProgress),
		width:   width,
	}
}

// Update records progress. Finished volumes are dropped.
func (p *ProgressTracker) Update(progress services.VolumeProgress) {
	switch progress.Status {
	case "complete", "skipped", "error":
		delete(p.volumes, progress.Volume)
	default:
		prog := progress // Copy
		p.volumes[progress.Volume] = &prog
	}
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
}

func (p *ProgressTracker) Clear() {
	p.volumes = make(map[int]*services.VolumeProgress)
}

func (p *ProgressTracker) HasActive() bool {
	return len(p.volumes) > 0
}

// Line renders the active volumes on a single line, for redrawing in place.
func (p *ProgressTracker) Line() string {
	if len(p.volumes) == 0 {
		return ""
	}

	keys := make([]int, 0, len(p.volumes))
	for k := range p.volumes {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, p.render(p.volumes[k]))
	}
	return strings.Join(parts, "  ")
}

func (p *ProgressTracker) render(progress *services.VolumeProgress) string {
	label := styles.TextStyle.Render(fmt.Sprintf("Volume %s / %d", progress.Name, progress.Volumes))
	status := styles.StatusStyle(progress.Status)

	if progress.Pages == 0 {
		return label + " " + status.Render(progress.Status)
	}

	percentage := float64(progress.Page) / float64(progress.Pages) * 100
	bar := renderProgressBar(progress.Page, progress.Pages, p.width)
	return fmt.Sprintf("%s %s %s", label, bar,
		status.Render(fmt.Sprintf("%d/%d pages - %.0f%%", progress.Page, progress.Pages, percentage)))
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := min(int(float64(current)/float64(total)*float64(width)), width)
	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}
