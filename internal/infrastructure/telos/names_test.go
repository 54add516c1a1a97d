package telos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAccountFormat(t *testing.T) {
	c := &Client{}

	valid := []string{"newuser1", "a", "telos.free", "abcde12345xy", "12345"}
	for _, name := range valid {
		assert.True(t, c.ValidAccountFormat(name), "expected %q to be valid", name)
	}

	invalid := []string{"", "NewUser", "user_name", "abcdefghijklm", "user6", "user!"}
	for _, name := range invalid {
		assert.False(t, c.ValidAccountFormat(name), "expected %q to be invalid", name)
	}
}

func TestNameToUint64(t *testing.T) {
	assert.Equal(t, uint64(6138663577826885632), nameToUint64("eosio"))
	assert.Equal(t, uint64(6)<<59, nameToUint64("a"))
	assert.Equal(t, uint64(0), nameToUint64(""))
}

func TestNameToUint64_DistinctNames(t *testing.T) {
	assert.NotEqual(t, nameToUint64("alice"), nameToUint64("bob"))
}
