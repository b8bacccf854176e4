package sources

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kerbaras/comicenc/pkg/natsort"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zipEntry struct {
	name    string
	content string
}

func createTestZip(t *testing.T, dir string, entries []zipEntry) string {
	t.Helper()

	path := filepath.Join(dir, "book.cbz")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if !strings.HasSuffix(e.name, "/") {
			_, err = w.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return path
}

func readContents(t *testing.T, pages []ExtractedPage) []string {
	t.Helper()

	var out []string
	for _, p := range pages {
		content, err := os.ReadFile(p.TempPath)
		require.NoError(t, err)
		out = append(out, string(content))
	}
	return out
}

func TestZipSourceExtractNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	archive := createTestZip(t, dir, []zipEntry{
		{"ch/", ""},
		{"ch/10.png", "ten"},
		{"ch/2.png", "two"},
		{"ch/notes.txt", "notes"},
		{"ch/1.JPG", "one"},
	})

	out := t.TempDir()
	src, err := OpenZip(archive, Options{Order: natsort.Natural})
	require.NoError(t, err)
	defer src.Close()

	var calls int
	pages, err := src.Extract(out, func(done, total int) {
		calls++
		assert.Equal(t, 4, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 4, calls)
	assert.Equal(t, []string{"one", "two", "ten", "notes"}, readContents(t, pages))
	assert.Equal(t, "JPG", pages[0].Ext)
	assert.Equal(t, "ch/1.JPG", pages[0].Origin)
	for _, p := range pages {
		assert.True(t, strings.HasPrefix(filepath.Base(p.TempPath), TempPrefix))
		assert.Equal(t, out, filepath.Dir(p.TempPath))
	}
}

func TestZipSourceExtractImagesOnlyRawOrder(t *testing.T) {
	dir := t.TempDir()
	archive := createTestZip(t, dir, []zipEntry{
		{"10.png", "ten"},
		{"2.png", "two"},
		{"info.xml", "meta"},
		{"1.webp", "webp"},
	})

	src, err := OpenZip(archive, Options{ImagesOnly: true, Order: natsort.Raw})
	require.NoError(t, err)
	defer src.Close()

	pages, err := src.Extract(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ten", "two"}, readContents(t, pages))

	extended, err := OpenZip(archive, Options{ImagesOnly: true, Extended: true, Order: natsort.Raw})
	require.NoError(t, err)
	defer extended.Close()

	pages, err = extended.Extract(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"webp", "ten", "two"}, readContents(t, pages))
}

func TestOpenZipInvalidArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	_, err := OpenZip(path, Options{})
	assert.Error(t, err)
}
