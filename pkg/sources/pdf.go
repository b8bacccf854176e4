package sources

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/utils"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFImage is one raster image embedded in a page.
type PDFImage struct {
	ObjNr int
	Ext   string // type of the embedded stream, "jpg" for DCT images
	Data  io.Reader
}

// PDFDocument is the part of a PDF reader the decoder relies on.
type PDFDocument interface {
	PageCount() (int, error)
	PageImages(page int) ([]PDFImage, error)
}

// pdfcpuDocument reads images straight from their streams, without re-encoding them.
type pdfcpuDocument struct {
	rs   io.ReadSeeker
	conf *model.Configuration
}

func newPDFCPUDocument(rs io.ReadSeeker) *pdfcpuDocument {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &pdfcpuDocument{rs: rs, conf: conf}
}

func (d *pdfcpuDocument) PageCount() (int, error) {
	if _, err := d.rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return api.PageCount(d.rs, d.conf)
}

func (d *pdfcpuDocument) PageImages(page int) ([]PDFImage, error) {
	if _, err := d.rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	found, err := api.ExtractImagesRaw(d.rs, []string{strconv.Itoa(page)}, d.conf)
	if err != nil {
		return nil, err
	}

	var images []PDFImage
	for _, byObj := range found {
		for objNr, img := range byObj {
			images = append(images, PDFImage{ObjNr: objNr, Ext: img.FileType, Data: img})
		}
	}
	slices.SortFunc(images, func(a, b PDFImage) int { return a.ObjNr - b.ObjNr })
	return images, nil
}

// PDFSource reads the raster images of a PDF, page after page.
type PDFSource struct {
	path   string
	file   *os.File
	doc    PDFDocument
	opts   Options
	logger *slog.Logger
}

func OpenPDF(path string, opts Options) (*PDFSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &data.DecodeError{Archive: path, Op: "failed to open PDF", Err: err}
	}
	s := NewPDFSource(path, newPDFCPUDocument(f), opts)
	s.file = f
	return s, nil
}

// NewPDFSource wraps an already opened document.
func NewPDFSource(path string, doc PDFDocument, opts Options) *PDFSource {
	return &PDFSource{path: path, doc: doc, opts: opts, logger: utils.OrDiscard(opts.Logger)}
}

// Extract copies every image to dir in page order, then object order within a page.
func (s *PDFSource) Extract(dir string, progress ProgressFunc) ([]ExtractedPage, error) {
	count, err := s.doc.PageCount()
	if err != nil {
		return nil, &data.DecodeError{Archive: s.path, Op: "failed to read PDF", Err: err}
	}

	var pages []ExtractedPage
	for page := 1; page <= count; page++ {
		ref := fmt.Sprintf("page %d", page)

		images, err := s.doc.PageImages(page)
		if err != nil {
			if s.opts.SkipBadPages {
				s.logger.Warn("Skipping unreadable page", "archive", s.path, "page", page, "err", err)
				if progress != nil {
					progress(page, count)
				}
				continue
			}
			discard(pages)
			return nil, &data.DecodeError{Archive: s.path, Entry: ref, Op: "failed to read page", Err: err}
		}

		for _, img := range images {
			tmp, err := writeTemp(dir, img.Data)
			if err != nil {
				discard(pages)
				return nil, &data.DecodeError{
					Archive: s.path,
					Entry:   fmt.Sprintf("%s, object %d", ref, img.ObjNr),
					Op:      "failed to extract image",
					Err:     err,
				}
			}
			pages = append(pages, ExtractedPage{
				TempPath: tmp,
				Origin:   fmt.Sprintf("%s, object %d", ref, img.ObjNr),
				Ext:      img.Ext,
			})
		}

		s.logger.Debug("Extracted page", "page", page, "images", len(images))
		if progress != nil {
			progress(page, count)
		}
	}

	return pages, nil
}

func (s *PDFSource) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
