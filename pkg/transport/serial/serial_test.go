package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenRejectsNonexistentDevice(t *testing.T) {
	_, err := Open("/dev/this-device-does-not-exist-v5kit")
	assert.Error(t, err)
}

func TestListReturnsWithoutError(t *testing.T) {
	_, err := List()
	assert.NoError(t, err)
}
