package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var strictImageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "bmp": true,
}

var extendedImageExts = map[string]bool{
	"tif": true, "tiff": true, "gif": true, "eps": true, "raw": true, "cr2": true,
	"nef": true, "orf": true, "sr2": true, "ppm": true, "webp": true, "pgm": true,
	"pbm": true, "pnm": true, "ico": true, "flif": true, "pam": true, "pcx": true,
	"pgf": true, "sgi": true, "sid": true, "bgp": true,
}

var decodableExts = map[string]bool{
	"zip": true, "cbz": true, "pdf": true,
}

// Ext returns the lowercased extension of path without its leading dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// IsImage reports whether path carries a picture extension.
// The extended set also accepts formats most comic readers cannot display.
func IsImage(path string, extended bool) bool {
	ext := Ext(path)
	return strictImageExts[ext] || (extended && extendedImageExts[ext])
}

// ImageFilter returns an IsImage predicate bound to the extended switch.
func ImageFilter(extended bool) func(string) bool {
	return func(path string) bool {
		return IsImage(path, extended)
	}
}

// IsDecodable reports whether path is an archive the decoder knows how to read.
func IsDecodable(path string) bool {
	return decodableExts[Ext(path)]
}

// ListFiles walks root and returns every regular file accepted by keep.
// A nil keep accepts everything. Symbolic links are followed, a directory
// reached twice is only listed once. The result is in walk order, callers sort it.
func ListFiles(root string, keep func(path string) bool) ([]string, error) {
	l := &lister{keep: keep, visited: make(map[string]bool)}
	if err := l.walk(root); err != nil {
		return nil, err
	}
	return l.files, nil
}

type lister struct {
	keep    func(path string) bool
	visited map[string]bool
	files   []string
}

func (l *lister) walk(dir string) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if l.visited[real] {
		return nil
	}
	l.visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		mode, err := EntryMode(dir, entry)
		if errors.Is(err, fs.ErrNotExist) {
			continue // dangling link
		}
		if err != nil {
			return err
		}

		switch {
		case mode.IsDir():
			if err := l.walk(path); err != nil {
				return err
			}
		case mode.IsRegular():
			if l.keep == nil || l.keep(path) {
				l.files = append(l.files, path)
			}
		}
	}
	return nil
}

// EntryMode returns the type of entry, resolving symbolic links to the type of their target.
func EntryMode(dir string, entry fs.DirEntry) (fs.FileMode, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type(), nil
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		return 0, err
	}
	return info.Mode().Type(), nil
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
