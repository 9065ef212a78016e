package imaging

import (
	"context"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestResizerTransform(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "upload.png")
	writeTestImage(t, source, 800, 400)

	p := NewResizer(dir, 600, 60)
	output, err := p.Transform(context.Background(), source, "My Great Cover.png")
	require.NoError(t, err)

	// Output is a timestamped JPEG named after the sanitized upload name.
	assert.True(t, strings.HasSuffix(output, "-My_Great_Cover.jpg"), "unexpected output name %s", output)
	_, err = os.Stat(output)
	assert.NoError(t, err)

	// The source file is removed after a successful transform.
	_, err = os.Stat(source)
	assert.True(t, os.IsNotExist(err), "source file should have been removed")

	img, err := decode(output)
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestResizerTransformKeepsSmallImages(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "small.png")
	writeTestImage(t, source, 300, 200)

	p := NewResizer(dir, 600, 60)
	output, err := p.Transform(context.Background(), source, "small.png")
	require.NoError(t, err)

	img, err := decode(output)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx(), "images below the target width are not upscaled")
}

func TestResizerTransformCorruptInput(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(source, []byte("not an image"), 0o644))

	p := NewResizer(dir, 600, 60)
	_, err := p.Transform(context.Background(), source, "garbage.png")
	assert.Error(t, err)

	// A failed transform leaves the source in place.
	_, err = os.Stat(source)
	assert.NoError(t, err)
}

func TestResizerTransformCanceledContext(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "upload.png")
	writeTestImage(t, source, 10, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewResizer(dir, 600, 60)
	_, err := p.Transform(ctx, source, "upload.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
