package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordProducesDistinctHashes(t *testing.T) {
	h1, err := HashPassword("correcthorse")
	require.NoError(t, err)
	h2, err := HashPassword("correcthorse")
	require.NoError(t, err)

	// Salt randomization: same plaintext, different stored values
	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, "correcthorse", h1)

	// Both verify against the original password
	assert.True(t, CheckPassword(h1, "correcthorse"))
	assert.True(t, CheckPassword(h2, "correcthorse"))
}

func TestCheckPasswordRejectsWrongPassword(t *testing.T) {
	h, err := HashPassword("secret-pw")
	require.NoError(t, err)

	assert.False(t, CheckPassword(h, "wrong-pw"))
	assert.False(t, CheckPassword(h, ""))
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "secret-pw"))
}
