package integrations

import (
	"fmt"
	"os"
	"strings"

	"github.com/kerbaras/comicenc/pkg/data"
)

// VolumeWriter receives the chapters and pages of one volume, in order.
type VolumeWriter interface {
	// AddChapter starts a new chapter. Following pages belong to it.
	AddChapter(dir string) error
	// AddPage copies the picture at source into the volume under name.
	AddPage(name, source string) error
	// Close finalizes the container. The volume is unusable if it fails.
	Close() error
}

// Format is the container a volume is written as.
type Format string

const (
	FormatCBZ  Format = "cbz"
	FormatEPUB Format = "epub"
)

// ParseFormat validates the --format flag.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCBZ, FormatEPUB:
		return f, nil
	default:
		return "", &data.ConfigError{Option: "format", Value: s, Err: data.ErrUnknownFormat}
	}
}

// Ext returns the file extension of the format, with its dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// WriterOptions tune how a volume container is produced.
type WriterOptions struct {
	Title    string // EPUB title
	Compress bool   // deflate CBZ entries instead of storing them
}

// NewVolumeWriter creates path, truncating any leftover file, and returns a writer for format.
// Closing the writer closes the file.
func NewVolumeWriter(format Format, path string, opts WriterOptions) (VolumeWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	var w VolumeWriter
	switch format {
	case FormatCBZ:
		w = NewCBZWriter(f, opts.Compress)
	case FormatEPUB:
		w, err = NewEPUBWriter(f, opts.Title)
	default:
		err = fmt.Errorf("%w: %s", data.ErrUnknownFormat, format)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	return &fileVolume{VolumeWriter: w, file: f}, nil
}

type fileVolume struct {
	VolumeWriter
	file *os.File
}

func (v *fileVolume) Close() error {
	err := v.VolumeWriter.Close()
	if cerr := v.file.Close(); err == nil {
		err = cerr
	}
	return err
}
