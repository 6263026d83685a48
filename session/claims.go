package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity facts embedded in the bearer token's payload
// segment. The client never verifies the signature; the server does that on
// every request. Decoding here only recovers the display identity.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Role    string
}

// DecodeClaims decodes the payload segment of a bearer token.
//
// Any malformed input (wrong segment count, bad base64, bad JSON, missing
// subject) yields ok=false rather than an error: a credential that cannot be
// decoded is treated the same as no credential at all. The function is pure;
// clearing the stored credential on failure is the caller's policy.
func DecodeClaims(token string) (Claims, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, false
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, false
	}

	claims := Claims{
		Subject: stringClaim(mapClaims, "sub"),
		Email:   stringClaim(mapClaims, "email"),
		Name:    stringClaim(mapClaims, "name"),
		Role:    stringClaim(mapClaims, "role"),
	}
	if claims.Subject == "" {
		return Claims{}, false
	}
	if claims.Role == "" {
		claims.Role = "user"
	}

	return claims, true
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, ok := claims[key].(string)
	if !ok {
		return ""
	}
	return value
}
