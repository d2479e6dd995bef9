package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/v5kit/v5serial/pkg/connection"
	"github.com/v5kit/v5serial/pkg/packets"
)

func TestParseTransport(t *testing.T) {
	v, err := parseTransport("wired")
	assert.NoError(t, err)
	assert.Equal(t, connection.TransportWired, v)

	_, err = parseTransport("bogus")
	assert.Error(t, err)
}

func TestParseVendorAndTarget(t *testing.T) {
	vendor, err := parseVendor("user")
	assert.NoError(t, err)
	assert.Equal(t, packets.VendorUser, vendor)

	target, err := parseTarget("flash")
	assert.NoError(t, err)
	assert.Equal(t, packets.TargetFlash, target)

	_, err = parseVendor("bogus")
	assert.Error(t, err)
	_, err = parseTarget("bogus")
	assert.Error(t, err)
}

func TestParseAfterUploadAndMode(t *testing.T) {
	after, err := parseAfterUpload("run")
	assert.NoError(t, err)
	assert.Equal(t, packets.AfterUploadRunProgram, after)

	mode, err := parseCompetitionMode("auto")
	assert.NoError(t, err)
	assert.Equal(t, packets.CompetitionModeAuto, mode)

	_, err = parseAfterUpload("bogus")
	assert.Error(t, err)
	_, err = parseCompetitionMode("bogus")
	assert.Error(t, err)
}
