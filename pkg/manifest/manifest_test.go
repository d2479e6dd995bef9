package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := Config{
		Project: Project{IDE: "vexide"},
		Program: Program{
			Description: "made with vexide",
			Icon:        "default.bmp",
			IconAlt:     "",
			Slot:        2,
			Name:        "vexide",
		},
	}

	data, err := Encode(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[project]")
	assert.Contains(t, string(data), "[program]")
	assert.Contains(t, string(data), "slot")

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}

func TestDecodeMissingSectionsLeavesZeroValues(t *testing.T) {
	cfg, err := Decode([]byte("; empty\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}
