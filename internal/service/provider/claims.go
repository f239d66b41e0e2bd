package provider

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// decodeClaims reads the payload of an identity token without checking
// its signature. The result is informational only and must not be
// treated as a verified trust boundary.
func decodeClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode identity token: %w", err)
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
