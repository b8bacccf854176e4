package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/natsort"
	"github.com/kerbaras/comicenc/pkg/utils"
)

// DiscoveryOptions select which directories of the input root are chapters.
type DiscoveryOptions struct {
	Prefix      string // only keep directories whose name starts with it
	Order       natsort.Order
	RootChapter bool // the root itself is the only chapter
}

// DiscoverChapters lists the chapter directories of root, sorted.
// Ordinals are positions in the returned list and get renumbered by PlanVolumes.
func DiscoverChapters(root string, opts DiscoveryOptions) ([]data.Chapter, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", data.ErrChaptersDirNotFound, root)
		}
		return nil, fmt.Errorf("failed to read chapters directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", data.ErrChaptersDirNotFound, root)
	}

	if opts.RootChapter {
		name := filepath.Base(filepath.Clean(root))
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: %q", data.ErrInvalidName, name)
		}
		return []data.Chapter{{Ordinal: 1, SourcePath: root, DisplayName: name}}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapters directory: %w", err)
	}

	var chapters []data.Chapter
	for _, entry := range entries {
		mode, err := utils.EntryMode(root, entry)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read chapters directory: %w", err)
		}
		if !mode.IsDir() {
			continue
		}
		name := entry.Name()
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: %q", data.ErrInvalidName, name)
		}
		if opts.Prefix != "" && !strings.HasPrefix(name, opts.Prefix) {
			continue
		}
		chapters = append(chapters, data.Chapter{SourcePath: filepath.Join(root, name), DisplayName: name})
	}

	slices.SortStableFunc(chapters, func(a, b data.Chapter) int {
		return opts.Order.ComparePaths(a.SourcePath, b.SourcePath)
	})
	for i := range chapters {
		chapters[i].Ordinal = i + 1
	}

	return chapters, nil
}

// ValidateRange rejects explicit zero bounds and reversed ranges.
func ValidateRange(r data.Range) error {
	if r.Start != nil && *r.Start <= 0 {
		return &data.ConfigError{Option: "start-chapter", Value: *r.Start, Err: data.ErrInvalidStartChapter}
	}
	if r.End != nil && *r.End <= 0 {
		return &data.ConfigError{Option: "end-chapter", Value: *r.End, Err: data.ErrInvalidEndChapter}
	}
	if r.Start != nil && r.End != nil && *r.End < *r.Start {
		return &data.ConfigError{Option: "end-chapter", Value: *r.End, Err: data.ErrStartAfterEnd}
	}
	return nil
}

// chaptersPerVolume returns how many chapters a volume of the method holds.
// Single volumes hold the whole catalog until the selection is known.
func chaptersPerVolume(m data.Method, total int) (int, error) {
	switch m := m.(type) {
	case data.Compile:
		if m.ChaptersPerVolume <= 0 {
			return 0, &data.ConfigError{Option: "chapters-per-volume", Value: m.ChaptersPerVolume, Err: data.ErrZeroChaptersPerVolume}
		}
		return m.ChaptersPerVolume, nil
	case data.Each:
		return 1, nil
	case data.Single:
		return max(total, 1), nil
	default:
		return 0, fmt.Errorf("%w: unknown method %T", data.ErrPlanInvariant, m)
	}
}

// PlanVolumes selects the requested chapter range and splits it into volume batches.
//
// Padding widths depend on the whole discovered catalog, not the selection, so
// volume names stay stable across partial runs.
func PlanVolumes(chapters []data.Chapter, method data.Method, r data.Range) (*data.Plan, error) {
	if err := ValidateRange(r); err != nil {
		return nil, err
	}

	total := len(chapters)
	k, err := chaptersPerVolume(method, total)
	if err != nil {
		return nil, err
	}
	volumeWidth := utils.DecimalDigits(utils.CeilDiv(total, k))

	start := 1
	if r.Start != nil {
		start = *r.Start
	}
	end := total
	if r.End != nil {
		end = min(*r.End, total)
	}
	selected := max(end-(start-1), 0)

	if _, ok := method.(data.Single); ok {
		k = max(selected, 1)
	}

	plan := &data.Plan{
		Method:             method,
		TotalChapters:      total,
		FirstChapter:       start,
		SelectedChapters:   selected,
		ChaptersPerVolume:  k,
		VolumeNumberWidth:  volumeWidth,
		ChapterNumberWidth: utils.DecimalDigits(total),
	}
	if selected == 0 {
		return plan, nil
	}

	current := data.VolumeBatch{Index: 1, StartingChapter: 1}
	for i, c := range chapters[start-1 : start-1+selected] {
		c.Ordinal = i + 1
		current.Chapters = append(current.Chapters, c)

		if len(current.Chapters) == k {
			plan.Volumes = append(plan.Volumes, current)
			current = data.VolumeBatch{
				Index:           current.Index + 1,
				StartingChapter: current.StartingChapter + len(current.Chapters),
			}
		}
	}
	if len(current.Chapters) > 0 {
		plan.Volumes = append(plan.Volumes, current)
	}

	if err := checkPlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func checkPlan(plan *data.Plan) error {
	if want := utils.CeilDiv(plan.SelectedChapters, plan.ChaptersPerVolume); len(plan.Volumes) != want {
		return fmt.Errorf("%w: %d volumes planned instead of %d", data.ErrPlanInvariant, len(plan.Volumes), want)
	}

	switch plan.Method.(type) {
	case data.Single:
		if len(plan.Volumes) > 1 {
			return fmt.Errorf("%w: %d volumes planned for a single output file", data.ErrPlanInvariant, len(plan.Volumes))
		}
	case data.Each:
		for _, b := range plan.Volumes {
			if len(b.Chapters) != 1 {
				return fmt.Errorf("%w: volume %d holds %d chapters", data.ErrPlanInvariant, b.Index, len(b.Chapters))
			}
		}
	}
	return nil
}
