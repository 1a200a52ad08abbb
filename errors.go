package chat

import (
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/ponyexpress/chat/middleware/jwtware"
)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithTextCode("validation_error").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the uniform credential failure: callers
// must not be able to tell an unknown username from a wrong password.
var ErrMismatchedHashAndPassword = errors.New("incorrect username or password", errors.CategoryAuth).
	WithTextCode("invalid_credentials").
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode("unauthorized").
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts puts a cap on credential guessing
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode("too_many_attempts").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired surfaces only in server logs; clients get an opaque 401
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("unauthorized").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures, bad structure, and every other
// non-expiry decode failure
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("unauthorized").
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is the error when a request carries no token
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode("unauthorized").
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode JWT claims from the request
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode("unauthorized").
	WithCode(errors.CodeUnauthorized)

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithTextCode("unauthorized").
	WithCode(errors.CodeUnauthorized)

// ErrUnableToParseData parse error
var ErrUnableToParseData = errors.New("unable to parse data", errors.CategoryBadInput).
	WithTextCode("validation_error").
	WithCode(errors.CodeBadRequest)

// NewEntityNotFound builds the 404 payload the API exposes for unknown ids.
func NewEntityNotFound(entity string, id any) *errors.Error {
	return errors.New(fmt.Sprintf("%s not found", entity), errors.CategoryNotFound).
		WithTextCode("entity_not_found").
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{
			"entity_name": entity,
			"entity_id":   id,
		})
}

// NewDuplicateEntity builds the uniqueness conflict payload. field names the
// colliding column so clients can point at the right input.
func NewDuplicateEntity(entity, field, value string) *errors.Error {
	return errors.New(fmt.Sprintf("%s %s already in use", entity, field), errors.CategoryConflict).
		WithTextCode("duplicate_entity").
		WithCode(errors.CodeConflict).
		WithMetadata(map[string]any{
			"entity_name":  entity,
			"entity_field": field,
			"entity_value": value,
		})
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired)
}

// IsMalformedError matches every non-expiry token failure, including a
// missing bearer token rejected by the middleware before validation.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, jwtware.ErrJWTMissingOrMalformed)
}

// IsNotFoundError reports whether err denotes a missing record, either as a
// rich not-found error or as the repository layer's record-not-found.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.IsNotFound(err) || repository.IsRecordNotFound(err)
}
