package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarU16RoundTrip(t *testing.T) {
	for v := uint16(0); v <= MaxVarU16; v += 97 {
		vu, err := NewVarU16(v)
		require.NoError(t, err)
		encoded := vu.Encode(nil)
		decoded, n, err := DecodeVarU16(encoded)
		require.NoError(t, err)
		assert.Equal(t, len(encoded), n)
		assert.Equal(t, v, decoded.Value())
	}
}

func TestVarU16EncodingForms(t *testing.T) {
	v1, err := NewVarU16(0x007F)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7F}, v1.Encode(nil))

	v2, err := NewVarU16(0x0080)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x80}, v2.Encode(nil))

	v3, err := NewVarU16(0x0F00)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x8F, 0x00}, v3.Encode(nil))

	decoded, n, err := DecodeVarU16([]byte{0x8F, 0x00})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, uint16(0x0F00), decoded.Value())
}

func TestVarU16RejectsOutOfRange(t *testing.T) {
	_, err := NewVarU16(0x8000)
	require.Error(t, err)
}

func TestFixedStringRoundTrip(t *testing.T) {
	fs, err := FixedStringCap(8, "abc")
	require.NoError(t, err)
	encoded := fs.Encode(nil)
	assert.Equal(t, 9, len(encoded))

	decoded, n, err := DecodeFixedString(encoded, 8)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "abc", decoded.String())
}

func TestFixedStringAllowsContentFillingCapacity(t *testing.T) {
	fs, err := FixedStringCap(3, "abc")
	require.NoError(t, err)
	assert.Equal(t, 4, len(fs.Encode(nil)))
}

func TestFixedStringRejectsOverlong(t *testing.T) {
	_, err := FixedStringCap(3, "abcd")
	require.Error(t, err)
}

func TestFixedStringRejectsUnterminated(t *testing.T) {
	_, _, err := DecodeFixedString([]byte{'a', 'b', 'c'}, 2)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrUnterminatedString, de.Kind)
}

func TestFixedStringRejectsNonZeroTail(t *testing.T) {
	_, _, err := DecodeFixedString([]byte{'a', 0, 'x', 0}, 3)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ErrUnterminatedString, de.Kind)
}

func TestCRC16KnownVector(t *testing.T) {
	assert.Equal(t, uint16(0x0000), CRC16(nil))
	assert.Equal(t, uint16(0x31C3), CRC16([]byte("123456789")))
}

func TestVersionReversedDecoding(t *testing.T) {
	data := []byte{0x04, 0x03, 0x02, 0x01}
	v, n, err := DecodeVersionReversed(data)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, Version{Major: 1, Minor: 2, Build: 3, Beta: 4}, v)
}

func TestTimestampRoundTrip(t *testing.T) {
	want := J2000Epoch.Add(5 * time.Second)
	encoded := EncodeTimestamp(want)
	got := DecodeTimestamp(encoded)
	assert.True(t, got.Equal(want))
}
