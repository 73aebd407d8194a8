package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/campuslink/internal/app/models"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, claims SessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(subject string) SessionClaims {
	return SessionClaims{
		Email: "ada@example.edu",
		UserMetadata: UserMetadata{
			FullName: "Ada Lovelace",
			Role:     "faculty",
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerify_ExtractsIdentity(t *testing.T) {
	verifier := NewSessionVerifier(VerifierConfig{SecretKey: testSecret})
	userID := uuid.New()

	identity, err := verifier.Verify(signToken(t, testSecret, validClaims(userID.String())))
	require.NoError(t, err)

	assert.Equal(t, userID, identity.ID)
	assert.Equal(t, "ada@example.edu", identity.Email)
	assert.Equal(t, "Ada Lovelace", identity.FullName)
	assert.Equal(t, models.RoleFaculty, identity.Role)
}

func TestVerify_UnknownRoleFallsBackToStudent(t *testing.T) {
	verifier := NewSessionVerifier(VerifierConfig{SecretKey: testSecret})
	claims := validClaims(uuid.New().String())
	claims.UserMetadata.Role = "superuser"

	identity, err := verifier.Verify(signToken(t, testSecret, claims))
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, identity.Role)
}

func TestVerify_ExpiredToken(t *testing.T) {
	verifier := NewSessionVerifier(VerifierConfig{SecretKey: testSecret, Leeway: time.Second})
	claims := validClaims(uuid.New().String())
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	_, err := verifier.Verify(signToken(t, testSecret, claims))
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier := NewSessionVerifier(VerifierConfig{SecretKey: testSecret})

	_, err := verifier.Verify(signToken(t, "other-secret", validClaims(uuid.New().String())))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_SubjectMustBeUUID(t *testing.T) {
	verifier := NewSessionVerifier(VerifierConfig{SecretKey: testSecret})

	_, err := verifier.Verify(signToken(t, testSecret, validClaims("user-42")))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_IssuerChecked(t *testing.T) {
	verifier := NewSessionVerifier(VerifierConfig{SecretKey: testSecret, Issuer: "https://id.example.edu"})

	claims := validClaims(uuid.New().String())
	claims.Issuer = "https://attacker.example.com"
	_, err := verifier.Verify(signToken(t, testSecret, claims))
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims.Issuer = "https://id.example.edu"
	_, err = verifier.Verify(signToken(t, testSecret, claims))
	assert.NoError(t, err)
}

func TestVerify_RejectsUnexpectedAlgorithm(t *testing.T) {
	verifier := NewSessionVerifier(VerifierConfig{SecretKey: testSecret})

	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims(uuid.New().String()))
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	// Raw tokens without the scheme prefix are accepted as-is.
	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
