package services

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/integrations"
	"github.com/kerbaras/comicenc/pkg/natsort"
	"github.com/kerbaras/comicenc/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// EncodeOptions control how volumes are written.
type EncodeOptions struct {
	OutputDir        string // where Compile and Each volumes go
	Format           integrations.Format
	Overwrite        bool
	AppendPageCount  bool
	ExtendedImages   bool
	Order            natsort.Order
	Compress         bool
	VerifyImages     bool
	ShowChapterPaths bool
	FullNames        bool // do not shorten names in console output
	Rebuilding       bool
	ListWorkers      int // chapters listed in parallel, defaults to the number of CPUs
}

// VolumeProgress represents the progress of one volume build
type VolumeProgress struct {
	Volume  int
	Volumes int
	Name    string
	Page    int
	Pages   int
	Status  string // "listing", "writing", "complete", "skipped", "error"
	Error   error
}

// Repository interface needed by encoder
type Repository interface {
	SaveVolume(v *data.VolumeRecord) error
}

// Encoder builds the volumes of a plan, one after the other.
type Encoder struct {
	opts       EncodeOptions
	logger     *slog.Logger
	repo       Repository
	onProgress func(VolumeProgress)
	rename     func(oldpath, newpath string) error
}

// NewEncoder creates a new Encoder instance
func NewEncoder(opts EncodeOptions, logger *slog.Logger) *Encoder {
	if opts.Format == "" {
		opts.Format = integrations.FormatCBZ
	}
	if opts.ListWorkers <= 0 {
		opts.ListWorkers = runtime.NumCPU()
	}
	return &Encoder{opts: opts, logger: utils.OrDiscard(logger), rename: os.Rename}
}

// WithRepository records every built volume into repo.
func (e *Encoder) WithRepository(repo Repository) *Encoder {
	e.repo = repo
	return e
}

// OnProgress registers a callback invoked synchronously as pages are written.
func (e *Encoder) OnProgress(fn func(VolumeProgress)) *Encoder {
	e.onProgress = fn
	return e
}

// ValidateEncode rejects option combinations that cannot be honored for method m.
func ValidateEncode(m data.Method, opts EncodeOptions) error {
	if opts.AppendPageCount && data.SkipsExisting(m) {
		return &data.ConfigError{
			Option: "append-pages-count",
			Err:    fmt.Errorf("%w: cannot be combined with --skip-existing", data.ErrConflictingOptions),
		}
	}
	return nil
}

// Encode builds every volume of plan in order and returns the produced paths.
func (e *Encoder) Encode(plan *data.Plan) ([]string, error) {
	if err := ValidateEncode(plan.Method, e.opts); err != nil {
		return nil, err
	}

	produced := make([]string, 0, len(plan.Volumes))
	for _, batch := range plan.Volumes {
		path, err := e.buildVolume(plan, batch)
		if err != nil {
			e.sendProgress(VolumeProgress{Volume: batch.Index, Volumes: len(plan.Volumes), Status: "error", Error: err})
			return produced, err
		}
		produced = append(produced, path)
	}

	if _, ok := plan.Method.(data.Single); ok && len(produced) > 1 {
		return produced, fmt.Errorf("%w: %d volumes produced for a single output file", data.ErrPlanInvariant, len(produced))
	}
	return produced, nil
}

func (e *Encoder) outputDir(m data.Method) string {
	if s, ok := m.(data.Single); ok {
		return filepath.Dir(s.Output)
	}
	return e.opts.OutputDir
}

// displayName is how the volume is referred to on the console.
func (e *Encoder) displayName(plan *data.Plan, batch data.VolumeBatch, name data.VolumeName) string {
	switch plan.Method.(type) {
	case data.Compile:
		return utils.Pad(batch.Index, plan.VolumeNumberWidth)
	default:
		return "'" + utils.TruncateForDisplay(name.File(-1), e.opts.FullNames) + "'"
	}
}

func (e *Encoder) buildVolume(plan *data.Plan, batch data.VolumeBatch) (string, error) {
	started := time.Now()
	volumes := len(plan.Volumes)

	name, err := data.VolumeFileName(plan.Method, plan, batch, e.opts.Format.Ext())
	if err != nil {
		return "", err
	}
	dir := e.outputDir(plan.Method)
	display := e.displayName(plan, batch, name)
	expected := filepath.Join(dir, name.File(-1))

	if !e.opts.Overwrite && !e.opts.AppendPageCount && exists(expected) {
		if data.SkipsExisting(plan.Method) {
			e.logger.Warn(fmt.Sprintf("Skipping volume %d containing chapters %d to %d as its output file already exists",
				batch.Index, batch.StartingChapter, batch.EndingChapter()), "path", expected)
			e.sendProgress(VolumeProgress{Volume: batch.Index, Volumes: volumes, Name: display, Status: "skipped"})
			return expected, nil
		}
		return "", &data.VolumeError{Volume: batch.Index, Path: expected, Op: "cannot write volume", Err: data.ErrOutputExists}
	}

	e.logger.Debug("Building volume", "volume", batch.Index, "of", volumes, "chapters", len(batch.Chapters))
	e.sendProgress(VolumeProgress{Volume: batch.Index, Volumes: volumes, Name: display, Status: "listing"})

	pages, err := e.listPages(batch)
	if err != nil {
		return "", err
	}
	total := 0
	for _, p := range pages {
		total += len(p)
	}

	staging := filepath.Join(dir, name.Staging())
	w, err := integrations.NewVolumeWriter(e.opts.Format, staging, integrations.WriterOptions{
		Title:    name.Stem,
		Compress: e.opts.Compress,
	})
	if err != nil {
		return "", &data.VolumeError{Volume: batch.Index, Path: staging, Op: "failed to create volume file", Err: err}
	}

	written := 0
	for i, c := range batch.Chapters {
		if err := e.writeChapter(w, plan, batch, c, pages[i], display, &written, total); err != nil {
			w.Close()
			return "", err
		}
	}

	if err := w.Close(); err != nil {
		return "", &data.VolumeError{Volume: batch.Index, Path: staging, Op: "failed to finalize volume", Err: err}
	}

	count := -1
	if e.opts.AppendPageCount {
		count = written
	}
	final := filepath.Join(dir, name.File(count))
	if err := e.publish(batch.Index, staging, final); err != nil {
		return "", err
	}

	e.succeeded(plan, batch, display, final, written, time.Since(started))
	return final, nil
}

func (e *Encoder) writeChapter(w integrations.VolumeWriter, plan *data.Plan, batch data.VolumeBatch, c data.Chapter, pages []data.ImagePage, display string, written *int, total int) error {
	dirName, err := data.ChapterDirName(plan.Method, plan, batch, c)
	if err != nil {
		return err
	}

	chapterDisplay := utils.Pad(c.Ordinal, plan.ChapterNumberWidth)
	if e.opts.ShowChapterPaths {
		e.logger.Info(fmt.Sprintf("Adding chapter %s to volume %s", chapterDisplay, display), "directory", c.SourcePath)
	} else {
		e.logger.Debug(fmt.Sprintf("Adding chapter %s to volume %s", chapterDisplay, display), "pages", len(pages))
	}

	if err := w.AddChapter(dirName); err != nil {
		return &data.VolumeError{Volume: batch.Index, Chapter: c.Ordinal, Path: dirName, Op: "failed to create chapter directory", Err: err}
	}

	for _, page := range pages {
		pageName, err := data.PageName(plan.Method, plan, batch, c, page, len(pages))
		if err != nil {
			return err
		}
		if err := w.AddPage(pageName, page.SourcePath); err != nil {
			return &data.VolumeError{Volume: batch.Index, Chapter: c.Ordinal, Path: page.SourcePath, Op: "failed to add picture", Err: err}
		}

		*written++
		e.sendProgress(VolumeProgress{
			Volume:  batch.Index,
			Volumes: len(plan.Volumes),
			Name:    display,
			Page:    *written,
			Pages:   total,
			Status:  "writing",
		})
	}
	return nil
}

// listPages lists and sorts the pictures of every chapter of batch.
// Chapters are listed in parallel, the result keeps the batch order.
func (e *Encoder) listPages(batch data.VolumeBatch) ([][]data.ImagePage, error) {
	pages := make([][]data.ImagePage, len(batch.Chapters))

	var eg errgroup.Group
	eg.SetLimit(e.opts.ListWorkers)
	for i, c := range batch.Chapters {
		eg.Go(func() error {
			list, err := e.listChapter(batch.Index, c)
			if err != nil {
				return err
			}
			pages[i] = list
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (e *Encoder) listChapter(volume int, c data.Chapter) ([]data.ImagePage, error) {
	files, err := utils.ListFiles(c.SourcePath, utils.ImageFilter(e.opts.ExtendedImages))
	if err != nil {
		return nil, &data.VolumeError{Volume: volume, Chapter: c.Ordinal, Path: c.SourcePath, Op: "failed to list chapter directory", Err: err}
	}
	e.opts.Order.SortPaths(files)

	pages := make([]data.ImagePage, 0, len(files))
	for i, f := range files {
		ext, err := data.PageExtension(f)
		if err != nil {
			return nil, &data.VolumeError{Volume: volume, Chapter: c.Ordinal, Path: f, Op: "invalid picture name", Err: err}
		}
		if e.opts.VerifyImages {
			if _, err := integrations.InspectImage(f); err != nil {
				return nil, &data.VolumeError{Volume: volume, Chapter: c.Ordinal, Path: f, Op: "failed to verify picture", Err: err}
			}
		}
		pages = append(pages, data.ImagePage{Ordinal: i, SourcePath: f, Extension: ext})
	}
	return pages, nil
}

// publish moves the finished staging file onto final.
// The staging file is kept when the rename itself fails.
func (e *Encoder) publish(volume int, staging, final string) error {
	info, err := os.Stat(final)
	switch {
	case err == nil:
		if !e.opts.Overwrite {
			os.Remove(staging)
			return &data.VolumeError{Volume: volume, Path: final, Op: "cannot publish volume", Err: data.ErrOutputExists}
		}
		if info.IsDir() {
			os.Remove(staging)
			return &data.VolumeError{Volume: volume, Path: final, Op: "cannot publish volume", Err: data.ErrOutputIsDirectory}
		}
		if err := os.Remove(final); err != nil {
			return &data.VolumeError{Volume: volume, Path: final, Op: "failed to remove existing output", Err: err}
		}
		e.logger.Debug("Replaced existing output", "path", final)
	case !errors.Is(err, fs.ErrNotExist):
		return &data.VolumeError{Volume: volume, Path: final, Op: "failed to check output", Err: err}
	}

	if err := e.rename(staging, final); err != nil {
		return &data.VolumeError{Volume: volume, Path: staging, Op: "failed to rename staging file", Err: err}
	}
	return nil
}

func (e *Encoder) succeeded(plan *data.Plan, batch data.VolumeBatch, display, final string, pages int, elapsed time.Duration) {
	var size int64
	if info, err := os.Stat(final); err == nil {
		size = info.Size()
	}

	file := utils.PadRight(utils.TruncateForDisplay(filepath.Base(final), e.opts.FullNames))
	attrs := []any{"pages", pages, "size", humanize.Bytes(uint64(size)), "elapsed", elapsed.Round(time.Millisecond)}

	switch plan.Method.(type) {
	case data.Compile:
		e.logger.Info(fmt.Sprintf("Successfully written volume %s / %d (chapters %s to %s) in '%s'",
			display, len(plan.Volumes),
			utils.Pad(batch.StartingChapter, plan.ChapterNumberWidth),
			utils.Pad(batch.EndingChapter(), plan.ChapterNumberWidth),
			file), attrs...)
	default:
		prefix := ""
		if e.opts.Rebuilding {
			prefix = "===> "
		}
		e.logger.Info(fmt.Sprintf("%sSuccessfully written volume %s / %d to file '%s'",
			prefix, utils.Pad(batch.Index, plan.VolumeNumberWidth), len(plan.Volumes), file), attrs...)
	}

	e.sendProgress(VolumeProgress{
		Volume:  batch.Index,
		Volumes: len(plan.Volumes),
		Name:    display,
		Page:    pages,
		Pages:   pages,
		Status:  "complete",
	})

	if e.repo != nil {
		record := &data.VolumeRecord{
			Path:     final,
			Method:   plan.Method.String(),
			Volume:   batch.Index,
			Chapters: len(batch.Chapters),
			Pages:    pages,
			Bytes:    size,
			Format:   string(e.opts.Format),
		}
		if err := e.repo.SaveVolume(record); err != nil {
			e.logger.Warn("Failed to record volume in history", "path", final, "err", err)
		}
	}
}

// sendProgress reports progress to the registered callback, if any
func (e *Encoder) sendProgress(progress VolumeProgress) {
	if e.onProgress != nil {
		e.onProgress(progress)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
