package integrations

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/go-shiori/go-epub"
)

// EPUBWriter writes a volume as a fixed-layout picture book, one section per chapter.
// go-epub reads the pictures from disk when the book is written, so nothing is
// copied before Close.
type EPUBWriter struct {
	dst     io.Writer
	book    *epub.Epub
	chapter string
	pages   strings.Builder
	count   int
	covered bool
}

// NewEPUBWriter returns a writer producing a book titled title into dst.
func NewEPUBWriter(dst io.Writer, title string) (*EPUBWriter, error) {
	book, err := epub.NewEpub(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create EPub: %w", err)
	}
	book.SetAuthor("comicenc")
	book.SetLang("en")

	return &EPUBWriter{dst: dst, book: book}, nil
}

func (w *EPUBWriter) AddChapter(dir string) error {
	if err := w.flush(); err != nil {
		return err
	}
	w.chapter = dir
	return nil
}

func (w *EPUBWriter) AddPage(name, source string) error {
	internal, err := w.book.AddImage(source, name)
	if err != nil {
		return fmt.Errorf("failed to add image %s: %w", name, err)
	}

	if !w.covered {
		if err := w.book.SetCover(internal, ""); err != nil {
			return fmt.Errorf("failed to set cover: %w", err)
		}
		w.covered = true
	}

	w.count++
	fmt.Fprintf(&w.pages,
		`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>%s`,
		internal, w.count, "\n")
	return nil
}

func (w *EPUBWriter) Close() error {
	if err := w.flush(); err != nil {
		return err
	}
	if _, err := w.book.WriteTo(w.dst); err != nil {
		return fmt.Errorf("failed to write EPub: %w", err)
	}
	return nil
}

// flush turns the pages gathered for the current chapter into a section.
func (w *EPUBWriter) flush() error {
	if w.pages.Len() == 0 {
		return nil
	}

	body := fmt.Sprintf("<h1>%s</h1>\n%s", html.EscapeString(w.chapter), w.pages.String())
	if _, err := w.book.AddSection(body, w.chapter, "", ""); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	w.pages.Reset()
	return nil
}
