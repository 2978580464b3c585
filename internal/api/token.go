package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryLeeway treats a token as stale slightly before its exp claim so a
// request dispatched now does not arrive with a just-expired token.
const expiryLeeway = 10 * time.Second

var tokenParser = jwt.NewParser()

// accessTokenExpired reports whether the access token is a parseable JWT
// whose exp claim has passed. The client never verifies the signature; an
// opaque or malformed token is sent as-is and the 401 path takes over.
func accessTokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := tokenParser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now().Add(expiryLeeway))
}
