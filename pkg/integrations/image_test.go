package integrations

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kerbaras/comicenc/pkg/data"
)

func TestInspectImage(t *testing.T) {
	dir := t.TempDir()
	path := createTestImage(t, dir, "page.png")

	info, err := InspectImage(path)
	if err != nil {
		t.Fatalf("Failed to inspect image: %v", err)
	}
	if !info.Verified {
		t.Error("Expected PNG to be verified")
	}
	if info.Format != "png" {
		t.Errorf("Expected format png, got %s", info.Format)
	}
	if info.Width != 1 || info.Height != 1 {
		t.Errorf("Expected 1x1, got %dx%d", info.Width, info.Height)
	}
}

func TestInspectImageCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(path, []byte("not a picture"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := InspectImage(path)
	if !errors.Is(err, data.ErrCorruptImage) {
		t.Errorf("Expected ErrCorruptImage, got %v", err)
	}
}

func TestInspectImageUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.cr2")
	if err := os.WriteFile(path, []byte("raw sensor data"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	info, err := InspectImage(path)
	if err != nil {
		t.Fatalf("Expected unknown formats to pass, got %v", err)
	}
	if info.Verified {
		t.Error("Expected unknown format not to be verified")
	}
}
