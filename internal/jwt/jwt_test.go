package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	customjwt "github.com/mufashe/mufashe-api/internal/jwt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestGeneratorRoundTrip(t *testing.T) {
	generator := customjwt.NewGenerator(testSecret, 7*24*time.Hour, "mufashe-test")

	token, err := generator.Issue(1234567890123456789)
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), token.ExpiresAt, time.Minute)

	userID, err := generator.Validate(token.Value)
	require.NoError(t, err)
	require.Equal(t, int64(1234567890123456789), userID)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := customjwt.NewGenerator(testSecret, time.Hour, "mufashe-test")
	other := customjwt.NewGenerator([]byte("fedcba9876543210fedcba9876543210"), time.Hour, "mufashe-test")

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	_, err = other.Validate(token.Value)
	require.ErrorIs(t, err, customjwt.ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	issued := time.Now().Add(-8 * 24 * time.Hour)
	generator := customjwt.NewGenerator(testSecret, 7*24*time.Hour, "mufashe-test")

	token, err := generator.WithClock(func() time.Time { return issued }).Issue(7)
	require.NoError(t, err)

	_, err = generator.Validate(token.Value)
	require.ErrorIs(t, err, customjwt.ErrInvalidToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	token, err := customjwt.NewGenerator(testSecret, time.Hour, "someone-else").Issue(7)
	require.NoError(t, err)

	_, err = customjwt.NewGenerator(testSecret, time.Hour, "mufashe-test").Validate(token.Value)
	require.ErrorIs(t, err, customjwt.ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := customjwt.NewGenerator(testSecret, time.Hour, "mufashe-test").Validate("not.a.token")
	require.ErrorIs(t, err, customjwt.ErrInvalidToken)
}
