package sources

import (
	"archive/zip"
	"log/slog"
	"path"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/utils"
)

// ZipSource reads the pictures of a ZIP or CBZ archive.
type ZipSource struct {
	path   string
	reader *zip.ReadCloser
	opts   Options
	logger *slog.Logger
}

func OpenZip(archive string, opts Options) (*ZipSource, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, &data.DecodeError{Archive: archive, Op: "failed to open archive", Err: err}
	}
	return &ZipSource{path: archive, reader: r, opts: opts, logger: utils.OrDiscard(opts.Logger)}, nil
}

// Extract copies every kept entry to dir in container order, then returns them
// sorted by their path inside the archive.
func (s *ZipSource) Extract(dir string, progress ProgressFunc) ([]ExtractedPage, error) {
	var entries []*zip.File
	for _, f := range s.reader.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		if s.opts.ImagesOnly && !utils.IsImage(f.Name, s.opts.Extended) {
			s.logger.Debug("Skipping non-picture entry", "entry", f.Name)
			continue
		}
		entries = append(entries, f)
	}

	pages := make([]ExtractedPage, 0, len(entries))
	for i, f := range entries {
		page, err := s.extractEntry(dir, f)
		if err != nil {
			discard(pages)
			return nil, err
		}
		pages = append(pages, page)

		s.logger.Debug("Extracted entry", "entry", f.Name, "to", page.TempPath)
		if progress != nil {
			progress(i+1, len(entries))
		}
	}

	slices.SortStableFunc(pages, func(a, b ExtractedPage) int {
		return s.opts.Order.ComparePaths(a.Origin, b.Origin)
	})
	return pages, nil
}

func (s *ZipSource) extractEntry(dir string, f *zip.File) (ExtractedPage, error) {
	ext := strings.TrimPrefix(path.Ext(path.Base(f.Name)), ".")
	if !utf8.ValidString(ext) {
		return ExtractedPage{}, &data.DecodeError{Archive: s.path, Entry: f.Name, Op: "failed to read entry name", Err: data.ErrInvalidName}
	}

	rc, err := f.Open()
	if err != nil {
		return ExtractedPage{}, &data.DecodeError{Archive: s.path, Entry: f.Name, Op: "failed to open entry", Err: err}
	}
	defer rc.Close()

	tmp, err := writeTemp(dir, rc)
	if err != nil {
		return ExtractedPage{}, &data.DecodeError{Archive: s.path, Entry: f.Name, Op: "failed to extract entry", Err: err}
	}

	return ExtractedPage{TempPath: tmp, Origin: f.Name, Ext: ext}, nil
}

func (s *ZipSource) Close() error {
	return s.reader.Close()
}
