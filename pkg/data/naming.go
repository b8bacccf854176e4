package data

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kerbaras/comicenc/pkg/utils"
)

// StagingExt is appended to a volume's name while it is being written.
const StagingExt = ".comic-enc-partial"

// VolumeName is a volume file name split around the spot where a page count may be inserted.
type VolumeName struct {
	Stem string
	Ext  string // with the leading dot
}

// File returns the file name, with the " (N pages)" suffix when pages >= 0.
func (n VolumeName) File(pages int) string {
	if pages < 0 {
		return n.Stem + n.Ext
	}
	return n.Stem + PageCountSuffix(pages) + n.Ext
}

// Staging returns the name of the partial file the volume is written to.
func (n VolumeName) Staging() string {
	return n.Stem + StagingExt
}

// PageCountSuffix is the text appended to volume names when page counts are requested.
func PageCountSuffix(pages int) string {
	return fmt.Sprintf(" (%d pages)", pages)
}

// VolumeFileName names the output file of batch b. ext is the container extension
// of Compile and Each volumes, a Single volume is named exactly as its output path.
func VolumeFileName(m Method, plan *Plan, b VolumeBatch, ext string) (VolumeName, error) {
	switch m := m.(type) {
	case Compile:
		stem := "Volume-" + utils.Pad(b.Index, plan.VolumeNumberWidth)
		if m.ShowRange && len(b.Chapters) > 0 {
			stem += fmt.Sprintf(" (c%s-c%s)",
				utils.Pad(b.StartingChapter, plan.ChapterNumberWidth),
				utils.Pad(b.EndingChapter(), plan.ChapterNumberWidth))
		}
		return VolumeName{Stem: stem, Ext: ext}, nil

	case Each:
		if len(b.Chapters) != 1 {
			return VolumeName{}, fmt.Errorf("%w: volume %d of a per-chapter encoding holds %d chapters",
				ErrPlanInvariant, b.Index, len(b.Chapters))
		}
		return VolumeName{Stem: b.Chapters[0].DisplayName, Ext: ext}, nil

	case Single:
		base := filepath.Base(m.Output)
		own := filepath.Ext(base)
		return VolumeName{Stem: strings.TrimSuffix(base, own), Ext: own}, nil

	default:
		return VolumeName{}, fmt.Errorf("%w: unknown method %T", ErrPlanInvariant, m)
	}
}

// ChapterDirName names the directory holding chapter c inside the volume of batch b.
func ChapterDirName(m Method, plan *Plan, b VolumeBatch, c Chapter) (string, error) {
	switch m.(type) {
	case Compile, Single:
		return structuredChapterName(plan, b, c), nil
	case Each:
		return c.DisplayName, nil
	default:
		return "", fmt.Errorf("%w: unknown method %T", ErrPlanInvariant, m)
	}
}

// PageName names a page of chapter c inside the volume. pageCount is the number of
// pages of the chapter and sets the padding of the page number.
func PageName(m Method, plan *Plan, b VolumeBatch, c Chapter, page ImagePage, pageCount int) (string, error) {
	num := utils.Pad(page.Ordinal, utils.DecimalDigits(pageCount))

	switch m.(type) {
	case Compile, Single:
		return fmt.Sprintf("%s_Pic_%s.%s", structuredChapterName(plan, b, c), num, page.Extension), nil
	case Each:
		return fmt.Sprintf("%s_Pic_%s.%s", c.DisplayName, num, page.Extension), nil
	default:
		return "", fmt.Errorf("%w: unknown method %T", ErrPlanInvariant, m)
	}
}

func structuredChapterName(plan *Plan, b VolumeBatch, c Chapter) string {
	return fmt.Sprintf("Vol_%s_Chapter_%s",
		utils.Pad(b.Index, plan.VolumeNumberWidth),
		utils.Pad(c.Ordinal, plan.ChapterNumberWidth))
}

// PageExtension returns the extension of a picture file, case preserved and without the dot.
func PageExtension(path string) (string, error) {
	base := filepath.Base(path)
	if !utf8.ValidString(base) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, base)
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingExtension, base)
	}
	return ext, nil
}

// EntryPath joins archive path segments with forward slashes.
func EntryPath(parts ...string) string {
	return strings.Join(parts, "/")
}
