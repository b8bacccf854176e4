package integrations

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/klauspost/compress/flate"
)

const copyBufferSize = 256 * 1024

// CBZWriter writes a volume as a ZIP archive: one directory entry per chapter,
// followed by the chapter's pages. Entries carry no timestamps, so the same
// pictures always produce the same bytes.
type CBZWriter struct {
	zw      *zip.Writer
	method  uint16
	chapter string
	buf     []byte
}

// NewCBZWriter returns a writer storing pages as-is, or deflating them when compress is set.
func NewCBZWriter(w io.Writer, compress bool) *CBZWriter {
	zw := zip.NewWriter(w)
	method := zip.Store
	if compress {
		method = zip.Deflate
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestCompression)
		})
	}

	return &CBZWriter{
		zw:     zw,
		method: method,
		buf:    make([]byte, copyBufferSize),
	}
}

func (w *CBZWriter) AddChapter(dir string) error {
	_, err := w.zw.CreateHeader(&zip.FileHeader{Name: dir + "/", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("failed to create chapter directory: %w", err)
	}
	w.chapter = dir
	return nil
}

func (w *CBZWriter) AddPage(name, source string) error {
	entry := name
	if w.chapter != "" {
		entry = data.EntryPath(w.chapter, name)
	}

	dst, err := w.zw.CreateHeader(&zip.FileHeader{Name: entry, Method: w.method})
	if err != nil {
		return fmt.Errorf("failed to create picture entry: %w", err)
	}

	src, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open picture: %w", err)
	}
	defer src.Close()

	// Wrapped so *os.File's WriterTo does not bypass the shared buffer.
	if _, err := io.CopyBuffer(dst, struct{ io.Reader }{src}, w.buf); err != nil {
		return fmt.Errorf("failed to copy picture: %w", err)
	}
	return nil
}

func (w *CBZWriter) Close() error {
	return w.zw.Close()
}
