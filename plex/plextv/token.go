package plextv

import (
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Token is the auth token kept on file for a chat account. Plex has
// issued two shapes over the years: opaque legacy strings, which carry
// no expiry, and JWTs, which do.
type Token string

func (t Token) String() string {
	return string(t)
}

// Expired reports whether the token is a JWT past its expiration claim,
// so callers can reject it without a round trip. Signatures are not
// verified; expiry is the only claim of interest here. Legacy and
// unrecognized tokens never expire client-side: whether Plex still
// honors those only shows up as a rejected request.
func (t Token) Expired() bool {
	claims, err := jwt.Parse([]byte(t), jwt.WithVerify(false))
	if err != nil {
		return errors.Is(err, jwt.TokenExpiredError())
	}
	exp, ok := claims.Expiration()
	return ok && !exp.After(time.Now())
}
