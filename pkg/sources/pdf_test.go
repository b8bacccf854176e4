package sources

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDF struct {
	pages map[int][]PDFImage
	bad   map[int]bool
	count int
}

func (f *fakePDF) PageCount() (int, error) {
	return f.count, nil
}

func (f *fakePDF) PageImages(page int) ([]PDFImage, error) {
	if f.bad[page] {
		return nil, errors.New("broken resources")
	}
	return f.pages[page], nil
}

func pdfImage(obj int, content string) PDFImage {
	return PDFImage{ObjNr: obj, Ext: "jpg", Data: bytes.NewBufferString(content)}
}

func newFakePDF() *fakePDF {
	return &fakePDF{
		count: 3,
		pages: map[int][]PDFImage{
			1: {pdfImage(4, "p1a"), pdfImage(7, "p1b")},
			2: {pdfImage(12, "p2")},
			3: {pdfImage(20, "p3")},
		},
		bad: map[int]bool{2: true},
	}
}

func TestPDFSourceExtractFailsOnBadPage(t *testing.T) {
	out := t.TempDir()
	src := NewPDFSource("book.pdf", newFakePDF(), Options{})

	_, err := src.Extract(out, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")

	// pictures of page 1 are not left behind
	left, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPDFSourceExtractSkipsBadPages(t *testing.T) {
	out := t.TempDir()
	src := NewPDFSource("book.pdf", newFakePDF(), Options{SkipBadPages: true})

	var last int
	pages, err := src.Extract(out, func(done, total int) { last = done })
	require.NoError(t, err)

	assert.Equal(t, 3, last)
	assert.Equal(t, []string{"p1a", "p1b", "p3"}, readContents(t, pages))
	for _, p := range pages {
		assert.Equal(t, "jpg", p.Ext)
		assert.Equal(t, out, filepath.Dir(p.TempPath))
	}
	assert.NoError(t, src.Close())
}

func TestOpenUnsupportedFormat(t *testing.T) {
	_, err := Open("book.cbr", Options{})
	assert.Error(t, err)
}
