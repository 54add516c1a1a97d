package smshash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_Deterministic(t *testing.T) {
	assert.Equal(t, Hash("5551234567"), Hash("5551234567"))
}

func TestHash_DistinctInputs(t *testing.T) {
	assert.NotEqual(t, Hash("5551234567"), Hash("5551234568"))
}

func TestHash_HexEncoded(t *testing.T) {
	h := Hash("5551234567")
	assert.Len(t, h, 64)
	assert.Regexp(t, "^[0-9a-f]+$", h)
}
