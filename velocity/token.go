package velocity

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const bearerScheme = "Bearer"

// Claims is the unverified payload of a bearer token.
type Claims map[string]any

// ExtractToken returns the candidate token carried by the Authorization
// header. A value whose first space separated word is "Bearer" yields the
// word after it; any other value is returned whole.
func ExtractToken(headers map[string]string) (string, bool) {
	token := headers["Authorization"]
	if token == "" {
		token = headers["authorization"]
	}
	if token == "" {
		return "", false
	}

	if parts := strings.Split(token, " "); parts[0] == bearerScheme {
		if len(parts) < 2 {
			return "", false
		}
		token = parts[1]
	}
	return token, token != ""
}

// DecodeClaims reads the claims segment of a token without checking its
// signature. A token that cannot be decoded has no claims.
func DecodeClaims(token string) (Claims, bool) {
	claims, err := decodeClaims(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func decodeClaims(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	// The claims segment is decoded before the signing method is resolved,
	// so an unknown or missing alg still leaves usable claims.
	if err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return nil, err
	}
	return Claims(claims), nil
}
