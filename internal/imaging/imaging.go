// Package imaging optimizes uploaded cover images. An uploaded source file is
// resized to a target width, re-encoded as JPEG at a configured quality and
// written to the images directory under a unique timestamped name. The source
// file is removed once the transform succeeds.
package imaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// Processor transforms an uploaded image file into its optimized form and
// returns the path of the output file.
type Processor interface {
	Transform(ctx context.Context, sourcePath, originalName string) (string, error)
}

// Resizer is a Processor backed by the disintegration/imaging library.
type Resizer struct {
	dir     string
	width   int
	quality int
}

// NewResizer creates a Resizer which writes optimized images to dir at the
// given target width and JPEG quality.
func NewResizer(dir string, width, quality int) *Resizer {
	return &Resizer{
		dir:     dir,
		width:   width,
		quality: quality,
	}
}

// Transform decodes the source file, scales it down to the target width when
// it is wider, and encodes the result as JPEG in the images directory. The
// output name is derived from a millisecond timestamp plus the sanitized
// original file name, so repeated uploads of the same file never collide.
func (p *Resizer) Transform(ctx context.Context, sourcePath, originalName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img, err := imaging.Open(sourcePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", sourcePath, err)
	}
	if img.Bounds().Dx() > p.width {
		img = imaging.Resize(img, p.width, 0, imaging.Lanczos)
	}
	outputPath := filepath.Join(p.dir, outputName(originalName))
	err = imaging.Save(img, outputPath, imaging.JPEGQuality(p.quality))
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", outputPath, err)
	}
	// The original upload is no longer needed once the optimized copy exists.
	err = os.Remove(sourcePath)
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

// outputName builds a unique output file name from the original upload name,
// forced to the .jpg extension of the encoded output.
func outputName(originalName string) string {
	base := filepath.Base(originalName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || base == "." {
		base = "cover"
	}
	return fmt.Sprintf("%d-%s.jpg", time.Now().UnixMilli(), base)
}
