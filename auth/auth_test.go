package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermitted(t *testing.T) {
	assert.True(t, Permitted([]int{1, 2}, []int{3, 2}))
	assert.False(t, Permitted([]int{1, 2}, []int{3, 4}))
	assert.False(t, Permitted(nil, []int{1}))
	assert.False(t, Permitted([]int{1}, nil))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, VerifyPassword(hash, "secret"))
	assert.ErrorIs(t, VerifyPassword(hash, "Secret"), ErrAuth)
	assert.ErrorIs(t, VerifyPassword("", ""), ErrAuth)

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestKey(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := NewKeyID()
		require.NoError(t, err)
		require.Positive(t, id)

		parsed, err := ParseKey(FormatKey(id))
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}

	id, err := ParseKey("ff")
	require.NoError(t, err)
	assert.Equal(t, int64(255), id)

	for _, malformed := range []string{"", "zz", "-1", "+1", "0", "ffffffffffffffffff"} {
		_, err := ParseKey(malformed)
		assert.ErrorIs(t, err, ErrMalformedKey, malformed)
	}
}
