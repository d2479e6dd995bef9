package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStripsPaddingAndOffscreenColumn(t *testing.T) {
	raw := make([]byte, BufferSize)
	for y := 0; y < Height; y++ {
		for x := 0; x < rawWidth; x++ {
			i := (y*rawWidth + x) * 4
			raw[i+0] = byte(x % 256)   // B
			raw[i+1] = byte((x + 1) % 256) // G
			raw[i+2] = byte((x + 2) % 256) // R
			raw[i+3] = 0x00
		}
	}

	img, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())

	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(2*257), r)
	assert.Equal(t, uint32(1*257), g)
	assert.Equal(t, uint32(0*257), b)
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02})
	require.Error(t, err)
}
