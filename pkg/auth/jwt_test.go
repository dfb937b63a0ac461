package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret:   "test-secret",
		Issuer:   "clinic-booking-api",
		Audience: "clinic-booking-clients",
		Expiry:   time.Hour,
	}
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Secret = ""

	_, err := NewJWTService(cfg)
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestIssueAndValidate(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	token, err := svc.Issue(Identity{
		ID:        "0b0e3f2a-9a3d-4c25-b7e4-2f8f4f1c6d01",
		Email:     "nino@example.com",
		FirstName: "Nino",
		LastName:  "Beridze",
	}, []string{"Patient"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "0b0e3f2a-9a3d-4c25-b7e4-2f8f4f1c6d01", claims.Subject)
	assert.Equal(t, "nino@example.com", claims.Email)
	assert.Equal(t, "Nino", claims.FirstName)
	assert.Equal(t, "Beridze", claims.LastName)
	assert.Equal(t, []string{"Patient"}, claims.Roles)
	assert.Equal(t, "clinic-booking-api", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuer, err := NewJWTService(testConfig())
	require.NoError(t, err)

	other := testConfig()
	other.Secret = "a-different-secret"
	verifier, err := NewJWTService(other)
	require.NoError(t, err)

	token, err := issuer.Issue(Identity{ID: "abc"}, nil)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.Expiry = time.Millisecond
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, err := svc.Issue(Identity{ID: "abc"}, nil)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	cfg := testConfig()
	cfg.Issuer = "someone-else"
	issuer, err := NewJWTService(cfg)
	require.NoError(t, err)

	verifier, err := NewJWTService(testConfig())
	require.NoError(t, err)

	token, err := issuer.Issue(Identity{ID: "abc"}, nil)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	_, err = svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
