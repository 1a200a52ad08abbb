package chat

import (
	"github.com/ponyexpress/chat/middleware/jwtware"
)

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrUnableToDecodeSession
	}
	return f(tokenString)
}

// middlewareTokenValidator bridges a TokenService into the jwtware package,
// which carries its own claims interface to avoid an import cycle.
type middlewareTokenValidator struct {
	service TokenService
}

func (v middlewareTokenValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.service.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

var _ jwtware.TokenValidator = middlewareTokenValidator{}
