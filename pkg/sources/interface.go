package sources

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/natsort"
	"github.com/kerbaras/comicenc/pkg/utils"
)

// TempPrefix starts the name of every picture extracted before its final rename.
const TempPrefix = "___tmp_pic_"

// ExtractedPage is a picture copied out of an archive under a temporary name.
type ExtractedPage struct {
	TempPath string
	Origin   string // entry path or page/object reference inside the archive
	Ext      string // without the dot, may be empty
}

// ProgressFunc is told how many of the archive's pictures have been extracted so far.
type ProgressFunc func(done, total int)

// Source extracts the pictures of an archive, in reading order.
type Source interface {
	Extract(dir string, progress ProgressFunc) ([]ExtractedPage, error)
	Close() error
}

// Options control what is extracted and how it is ordered.
type Options struct {
	ImagesOnly   bool // skip ZIP entries without a picture extension
	Extended     bool // accept extended picture formats when filtering
	Order        natsort.Order
	SkipBadPages bool // drop unreadable PDF pages instead of failing
	Logger       *slog.Logger
}

// Open picks the reader matching the extension of path.
func Open(path string, opts Options) (Source, error) {
	switch utils.Ext(path) {
	case "zip", "cbz":
		return OpenZip(path, opts)
	case "pdf":
		return OpenPDF(path, opts)
	default:
		return nil, fmt.Errorf("%w: %s", data.ErrUnsupportedFormat, filepath.Base(path))
	}
}

// writeTemp copies r into a uniquely named file of dir.
func writeTemp(dir string, r io.Reader) (string, error) {
	path := filepath.Join(dir, TempPrefix+uuid.NewString())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// discard removes the temporary files of pages extracted before a failure.
func discard(pages []ExtractedPage) {
	for _, p := range pages {
		os.Remove(p.TempPath)
	}
}
