package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier is the read side of a Codec, what middleware and services depend
// on when they only need to check tokens.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Codec signs and verifies HS256 tokens with a single shared secret.
// Access and refresh tokens each get their own Codec so a refresh token can
// never pass as an access token.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec creates a Codec from a shared secret. The issuer, when non-empty,
// is stamped into signed claims and enforced on verify.
func NewCodec(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &Codec{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// Issuer returns the issuer enforced by this codec.
func (c *Codec) Issuer() string { return c.issuer }

// Sign serializes the claims into a compact HS256 JWT.
func (c *Codec) Sign(claims Claims) (string, error) {
	if c.issuer != "" && claims.Issuer == "" {
		claims.Issuer = c.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses the compact token, checks the HS256 signature and standard
// time claims, and returns the embedded Claims.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		default:
			return Claims{}, ErrInvalidToken
		}
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
