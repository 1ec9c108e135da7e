package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mufashe/mufashe-api/internal/password"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("secret1")
	require.NoError(t, err)
	require.NotContains(t, hash, "secret1")

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, password.Cost, cost)

	ok, err := password.Verify("secret1", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = password.Verify("wrong", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("secret1")
	require.NoError(t, err)
	second, err := password.Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestHashRejectsLongPassword(t *testing.T) {
	_, err := password.Hash(strings.Repeat("a", password.MaxBytes+1))
	require.ErrorIs(t, err, password.ErrTooLong)
}

func TestVerifyMalformedHash(t *testing.T) {
	ok, err := password.Verify("secret1", "not-a-hash")
	require.Error(t, err)
	require.False(t, ok)
}
