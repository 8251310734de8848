package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 60*time.Minute)

	token, err := issuer.GenerateAccessToken("er@cityhospital.in")
	require.NoError(t, err)

	claims, err := issuer.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "er@cityhospital.in", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, 60*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenIssuer_Expired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("test-secret", 60*time.Minute).WithClock(func() time.Time { return issued })

	token, err := issuer.GenerateAccessToken("er@cityhospital.in")
	require.NoError(t, err)

	later := issuer.WithClock(func() time.Time { return issued.Add(61 * time.Minute) })
	_, err = later.ValidateAccessToken(token)
	assert.Error(t, err)

	earlier := issuer.WithClock(func() time.Time { return issued.Add(59 * time.Minute) })
	_, err = earlier.ValidateAccessToken(token)
	assert.NoError(t, err)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).GenerateAccessToken("a@b.c")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour).ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cure-pass", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "s3cure-pass", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.True(t, ComparePassword(hash, "s3cure-pass"))
	assert.False(t, ComparePassword(hash, "wrong-pass"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("s3cure-pass", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestHaversineMeters(t *testing.T) {
	assert.Equal(t, 0.0, HaversineMeters(19.05, 72.85, 19.05, 72.85))

	// one degree of latitude on the 6378.1 km sphere
	d := HaversineMeters(0, 0, 1, 0)
	assert.InDelta(t, 111319.5, d, 1)
}

func TestMetersToKm(t *testing.T) {
	assert.Equal(t, 1.23, MetersToKm(1234.4))
	assert.Equal(t, 1.24, MetersToKm(1235.1))
	assert.Equal(t, 0.0, MetersToKm(0))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"cardiologist"}, NormalizeTags([]string{"Cardiologist ", " ", "cardiologist"}))
	assert.Equal(t, []string{"ct_scanner", "mri"}, NormalizeTags([]string{"MRI", "ct_scanner"}))
	assert.Equal(t, []string{}, NormalizeTags(nil))
}
