package phone

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telos-kitchen/account-service/internal/domain"
)

func TestNormalize_StripsFormatting(t *testing.T) {
	got, err := Normalize("(555) 123-4567")
	require.NoError(t, err)
	assert.Equal(t, "5551234567", got)
}

func TestNormalize_KeepsLeadingPlus(t *testing.T) {
	got, err := Normalize("+1 555.123.4567")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", got)
}

func TestNormalize_SameNumberSameForm(t *testing.T) {
	a, err := Normalize("555-1234")
	require.NoError(t, err)
	b, err := Normalize("555 1234")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalize_RejectsLetters(t *testing.T) {
	_, err := Normalize("555-CALL-ME")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestNormalize_RejectsEmpty(t *testing.T) {
	_, err := Normalize("   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestNormalize_RejectsTooShort(t *testing.T) {
	_, err := Normalize("12345")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}
