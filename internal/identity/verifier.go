package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed, expired, bad signature or wrong audience.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the profile fields extracted from a verified identity token.
type Claims struct {
	SubjectID  string
	Name       string
	Email      string
	PictureURL string
}

type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// VerifierConfig is fixed at startup and never mutated afterwards.
type VerifierConfig struct {
	Audience string
	Secret   []byte
}

// JWTVerifier validates provider-issued HS256 ID tokens against a configured
// audience and extracts the standard profile claims.
type JWTVerifier struct {
	cfg VerifierConfig
}

var _ TokenVerifier = (*JWTVerifier)(nil)

func NewJWTVerifier(cfg VerifierConfig) *JWTVerifier {
	return &JWTVerifier{cfg: cfg}
}

func (v *JWTVerifier) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr,
		func(token *jwt.Token) (interface{}, error) {
			return v.cfg.Secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience(v.cfg.Audience),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Claims{
		SubjectID:  sub,
		Name:       stringClaim(claims, "name"),
		Email:      stringClaim(claims, "email"),
		PictureURL: stringClaim(claims, "picture"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}
