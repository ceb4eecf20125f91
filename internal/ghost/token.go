package ghost

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenAudience is the audience every Admin API token is bound to.
	TokenAudience = "/admin/"
	// TokenLifetime is how long an Admin API token stays valid.
	TokenLifetime = 5 * time.Minute
)

var (
	ErrInvalidCredentialFormat = errors.New(`invalid Ghost Admin API key format, expected "id:secret"`)
	ErrInvalidSecretEncoding   = errors.New("invalid Ghost Admin API key secret, expected a hex string")
)

// AdminClaims are the claims Ghost expects in an Admin API token.
// aud is a plain string rather than the array RegisteredClaims would emit.
type AdminClaims struct {
	Audience string `json:"aud"`
	jwt.RegisteredClaims
}

// SplitAPIKey splits an "id:secret" admin key and decodes the hex secret.
func SplitAPIKey(apiKey string) (id string, secret []byte, err error) {
	parts := strings.Split(apiKey, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", nil, ErrInvalidCredentialFormat
	}
	secret, err = hex.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidSecretEncoding, err)
	}
	return parts[0], secret, nil
}

// NewAdminToken mints a short-lived HS256 token for the Admin API.
// The key id goes in the "kid" header; expiry is issuedAt + TokenLifetime.
func NewAdminToken(apiKey string, issuedAt time.Time) (string, error) {
	id, secret, err := SplitAPIKey(apiKey)
	if err != nil {
		return "", err
	}
	claims := &AdminClaims{
		Audience: TokenAudience,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = id
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

// ParseAdminToken verifies a token against the admin key and returns its
// key id and claims. Expiry is not enforced so old tokens can be inspected.
func ParseAdminToken(tokenString, apiKey string) (string, *AdminClaims, error) {
	_, secret, err := SplitAPIKey(apiKey)
	if err != nil {
		return "", nil, err
	}
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", nil, err
	}
	kid, _ := token.Header["kid"].(string)
	return kid, claims, nil
}
