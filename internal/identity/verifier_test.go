package identity_test

import (
	"testing"
	"time"

	"agility/internal/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const (
	testAudience = "agility-client"
	testSecret   = "test-secret-key"
)

func newVerifier() *identity.JWTVerifier {
	return identity.NewJWTVerifier(identity.VerifierConfig{
		Audience: testAudience,
		Secret:   []byte(testSecret),
	})
}

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":     "108234567890",
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"picture": "https://example.com/ada.png",
		"aud":     testAudience,
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestVerify_ValidToken(t *testing.T) {
	verifier := newVerifier()
	token := signToken(t, validClaims(), testSecret)

	claims, err := verifier.Verify(token)

	assert.NoError(t, err)
	assert.Equal(t, "108234567890", claims.SubjectID)
	assert.Equal(t, "Ada Lovelace", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "https://example.com/ada.png", claims.PictureURL)
}

func TestVerify_WrongAudience(t *testing.T) {
	verifier := newVerifier()
	mapClaims := validClaims()
	mapClaims["aud"] = "some-other-app"
	token := signToken(t, mapClaims, testSecret)

	_, err := verifier.Verify(token)

	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	verifier := newVerifier()
	mapClaims := validClaims()
	mapClaims["exp"] = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, mapClaims, testSecret)

	_, err := verifier.Verify(token)

	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier := newVerifier()
	token := signToken(t, validClaims(), "not-the-secret")

	_, err := verifier.Verify(token)

	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerify_MissingSubject(t *testing.T) {
	verifier := newVerifier()
	mapClaims := validClaims()
	delete(mapClaims, "sub")
	token := signToken(t, mapClaims, testSecret)

	_, err := verifier.Verify(token)

	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	verifier := newVerifier()

	_, err := verifier.Verify("not-a-token")

	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}
