// Package screen converts the raw framebuffer spec.md §4.6 downloads via
// ScreenCapture + DownloadFile into a displayable image.
package screen

import (
	"fmt"
	"image"
)

// rawWidth and Height are the brain's native framebuffer dimensions;
// rawWidth includes the 32-pixel off-screen column the device reserves and
// never displays. Width is the visible image width once that column is
// stripped.
const (
	rawWidth      = 512
	Height        = 272
	offscreenCols = 32
	Width         = rawWidth - offscreenCols
)

// BufferSize is the expected raw framebuffer size in bytes: one 32-bit
// BGRX pixel per (rawWidth, Height) cell.
const BufferSize = rawWidth * Height * 4

// Decode converts a raw little-endian BGRX framebuffer into a cropped RGB
// image, stripping the padding byte from every pixel and the off-screen
// column on the right.
func Decode(raw []byte) (*image.RGBA, error) {
	if len(raw) != BufferSize {
		return nil, fmt.Errorf("screen: expected %d bytes, got %d", BufferSize, len(raw))
	}
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		rowStart := y * rawWidth * 4
		for x := 0; x < Width; x++ {
			px := raw[rowStart+x*4 : rowStart+x*4+4]
			b, g, r := px[0], px[1], px[2]
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 0xFF
		}
	}
	return img, nil
}
