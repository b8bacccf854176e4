package services

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/natsort"
	"github.com/kerbaras/comicenc/pkg/sources"
	"github.com/kerbaras/comicenc/pkg/utils"
)

// DecodeOptions control how an archive is turned back into a directory of pages.
type DecodeOptions struct {
	Output          string // defaults to the archive path without its extension
	CreateOutputDir bool
	ImagesOnly      bool
	ExtendedImages  bool
	Order           natsort.Order
	SkipBadPages    bool
}

// Decoder extracts the pages of ZIP, CBZ and PDF archives.
type Decoder struct {
	opts       DecodeOptions
	logger     *slog.Logger
	open       func(path string, opts sources.Options) (sources.Source, error)
	onProgress sources.ProgressFunc
}

// NewDecoder creates a new Decoder instance
func NewDecoder(opts DecodeOptions, logger *slog.Logger) *Decoder {
	return &Decoder{opts: opts, logger: utils.OrDiscard(logger), open: sources.Open}
}

// OnProgress registers a callback told how many pictures were extracted so far.
func (d *Decoder) OnProgress(fn sources.ProgressFunc) *Decoder {
	d.onProgress = fn
	return d
}

// Decode extracts input and returns the output directory and the files written into it,
// named "1", "2", ... zero-padded to the same width, in archive order.
func (d *Decoder) Decode(input string) (string, []string, error) {
	started := time.Now()

	if !utils.IsDecodable(input) {
		return "", nil, fmt.Errorf("%w: %s", data.ErrUnsupportedFormat, filepath.Base(input))
	}
	if err := checkInputFile(input); err != nil {
		return "", nil, err
	}

	output, err := d.prepareOutput(input)
	if err != nil {
		return "", nil, err
	}

	src, err := d.open(input, sources.Options{
		ImagesOnly:   d.opts.ImagesOnly,
		Extended:     d.opts.ExtendedImages,
		Order:        d.opts.Order,
		SkipBadPages: d.opts.SkipBadPages,
		Logger:       d.logger,
	})
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	d.logger.Debug("Extracting archive", "archive", input, "to", output)
	pages, err := src.Extract(output, d.onProgress)
	if err != nil {
		return "", nil, err
	}

	files, err := renamePages(input, output, pages)
	if err != nil {
		return "", nil, err
	}

	d.logger.Info(fmt.Sprintf("Extracted %d pictures from '%s'", len(files), filepath.Base(input)),
		"output", output, "elapsed", time.Since(started).Round(time.Millisecond))
	return output, files, nil
}

func (d *Decoder) prepareOutput(input string) (string, error) {
	if d.opts.Output == "" {
		output := strings.TrimSuffix(input, filepath.Ext(input))
		if err := os.MkdirAll(output, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
		return output, nil
	}

	return d.opts.Output, ensureDir(d.opts.Output, d.opts.CreateOutputDir)
}

// renamePages gives the extracted pictures their final sequential names, in the given order.
func renamePages(archive, output string, pages []sources.ExtractedPage) ([]string, error) {
	width := utils.DecimalDigits(len(pages))
	files := make([]string, 0, len(pages))

	for i, p := range pages {
		name := utils.Pad(i+1, width)
		if p.Ext != "" {
			name += "." + p.Ext
		}
		target := filepath.Join(output, name)
		if err := os.Rename(p.TempPath, target); err != nil {
			return files, &data.DecodeError{Archive: archive, Entry: p.Origin, Op: "failed to rename extracted picture", Err: err}
		}
		files = append(files, target)
	}
	return files, nil
}

func checkInputFile(input string) error {
	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", data.ErrInputNotFound, input)
		}
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", data.ErrInputIsDirectory, input)
	}
	return nil
}

// ensureDir checks dir is a directory, creating it when missing and create is set.
func ensureDir(dir string, create bool) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", data.ErrNotADirectory, dir)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if !create {
			return fmt.Errorf("%w: %s", data.ErrOutputDirNotFound, dir)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to read output directory: %w", err)
	}
}
