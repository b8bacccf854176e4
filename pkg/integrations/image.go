package integrations

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/utils"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Formats a header check can be run on. Other extended formats are copied unchecked.
var verifiableExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "tif": true, "tiff": true, "webp": true,
}

// ImageInfo describes a picture whose header was read.
type ImageInfo struct {
	Format   string
	Width    int
	Height   int
	Verified bool // false when no decoder exists for the extension
}

// InspectImage reads the header of the picture at path without decoding its pixels.
// A picture with a known extension whose header cannot be read yields ErrCorruptImage.
func InspectImage(path string) (ImageInfo, error) {
	if !verifiableExts[utils.Ext(path)] {
		return ImageInfo{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", data.ErrCorruptImage, err)
	}

	return ImageInfo{
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Verified: true,
	}, nil
}
