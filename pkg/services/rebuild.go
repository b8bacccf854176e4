package services

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/integrations"
	"github.com/kerbaras/comicenc/pkg/natsort"
	"github.com/kerbaras/comicenc/pkg/utils"
)

// RebuildPrefix starts the name of the directory an archive is extracted to while rebuilt.
const RebuildPrefix = ".comicenc-rebuild-"

// RebuildOptions control how an archive is re-packed.
type RebuildOptions struct {
	Output         string // defaults to the input path with a .cbz extension
	TempDir        string // parent of the extraction directory, defaults to the input's directory
	Overwrite      bool
	ImagesOnly     bool
	ExtendedImages bool
	Order          natsort.Order
	Compress       bool
}

// Rebuilder re-packs an archive into a normalized single-volume CBZ.
type Rebuilder struct {
	opts   RebuildOptions
	logger *slog.Logger
	repo   Repository
}

// NewRebuilder creates a new Rebuilder instance
func NewRebuilder(opts RebuildOptions, logger *slog.Logger) *Rebuilder {
	return &Rebuilder{opts: opts, logger: utils.OrDiscard(logger)}
}

// WithRepository records the rebuilt volume into repo.
func (r *Rebuilder) WithRepository(repo Repository) *Rebuilder {
	r.repo = repo
	return r
}

// WorkDir returns the extraction directory used for input. It only depends on
// the input path, so a run finds the leftovers of an interrupted one.
func (r *Rebuilder) WorkDir(input string) string {
	parent := r.opts.TempDir
	if parent == "" {
		parent = filepath.Dir(input)
	}
	return filepath.Join(parent, RebuildPrefix+utils.Stem(input))
}

// Rebuild extracts input, then encodes its pages back as a single volume.
func (r *Rebuilder) Rebuild(input string) (string, error) {
	if !utils.IsDecodable(input) {
		return "", fmt.Errorf("%w: %s", data.ErrUnsupportedFormat, filepath.Base(input))
	}
	if err := checkInputFile(input); err != nil {
		return "", err
	}

	output := r.opts.Output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + integrations.FormatCBZ.Ext()
	}

	wrapper := r.WorkDir(input)
	if _, err := os.Stat(wrapper); err == nil {
		r.logger.Warn("Removing leftover temporary directory", "path", wrapper)
		if err := os.RemoveAll(wrapper); err != nil {
			return "", fmt.Errorf("failed to remove leftover temporary directory: %w", err)
		}
	}

	chapterDir := filepath.Join(wrapper, utils.Stem(input))
	if err := os.MkdirAll(chapterDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	r.logger.Info("==> (1/2) Extracting pictures...")
	decoder := NewDecoder(DecodeOptions{
		Output:         chapterDir,
		ImagesOnly:     r.opts.ImagesOnly,
		ExtendedImages: r.opts.ExtendedImages,
		Order:          r.opts.Order,
	}, r.logger)
	if _, _, err := decoder.Decode(input); err != nil {
		return "", err
	}

	chapters, err := DiscoverChapters(wrapper, DiscoveryOptions{Order: r.opts.Order})
	if err != nil {
		return "", err
	}
	if len(chapters) != 1 {
		return "", fmt.Errorf("%w: %d chapters found in %s", data.ErrPlanInvariant, len(chapters), wrapper)
	}

	r.logger.Info("==> (2/2) Encoding pictures in a book...")
	plan, err := PlanVolumes(chapters, data.Single{Output: output}, data.Range{})
	if err != nil {
		return "", err
	}

	encoder := NewEncoder(EncodeOptions{
		Format:         integrations.FormatCBZ,
		Overwrite:      r.opts.Overwrite,
		ExtendedImages: r.opts.ExtendedImages,
		Order:          r.opts.Order,
		Compress:       r.opts.Compress,
		Rebuilding:     true,
	}, r.logger)
	if r.repo != nil {
		encoder.WithRepository(r.repo)
	}

	produced, err := encoder.Encode(plan)
	if err != nil {
		return "", err
	}
	if len(produced) != 1 {
		return "", fmt.Errorf("%w: rebuild produced %d volumes", data.ErrPlanInvariant, len(produced))
	}

	if err := os.RemoveAll(wrapper); err != nil {
		r.logger.Warn("Failed to remove temporary directory", "path", wrapper, "err", err)
	}
	return produced[0], nil
}
