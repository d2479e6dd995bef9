package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFailsFastAgainstUnreachableRedis(t *testing.T) {
	_, err := New("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
