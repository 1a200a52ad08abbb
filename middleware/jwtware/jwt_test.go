package jwtware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ponyexpress/chat/middleware/jwtware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClaims struct {
	subject string
}

func (s stubClaims) Subject() string { return s.subject }
func (s stubClaims) UserID() string  { return s.subject }

type stubValidator struct {
	accept string
	claims jwtware.AuthClaims
}

func (v stubValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	if tokenString == v.accept {
		return v.claims, nil
	}
	return nil, errors.New("token is malformed")
}

func newTestApp(cfg jwtware.Config) *fiber.App {
	app := fiber.New()
	app.Get("/protected", jwtware.New(cfg), func(c *fiber.Ctx) error {
		claims, ok := c.Locals(contextKeyOr(cfg.ContextKey, "user")).(jwtware.AuthClaims)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"subject": claims.Subject()})
	})
	return app
}

func contextKeyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func TestNewMissingValidatorPanics(t *testing.T) {
	assert.Panics(t, func() {
		jwtware.New(jwtware.Config{})
	})
}

func TestHeaderExtraction(t *testing.T) {
	validator := stubValidator{accept: "good-token", claims: stubClaims{subject: "user-1"}}
	app := newTestApp(jwtware.Config{TokenValidator: validator})

	t.Run("valid bearer token reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("missing token is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("wrong scheme is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic good-token")

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("rejected token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer bad-token")

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestQueryExtraction(t *testing.T) {
	validator := stubValidator{accept: "good-token", claims: stubClaims{subject: "user-1"}}
	app := newTestApp(jwtware.Config{
		TokenValidator: validator,
		TokenLookup:    "query:auth_token",
	})

	req := httptest.NewRequest(http.MethodGet, "/protected?auth_token=good-token", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCookieExtraction(t *testing.T) {
	validator := stubValidator{accept: "good-token", claims: stubClaims{subject: "user-1"}}
	app := newTestApp(jwtware.Config{
		TokenValidator: validator,
		TokenLookup:    "cookie:jwt",
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "good-token"})

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestMultipleLookups(t *testing.T) {
	validator := stubValidator{accept: "good-token", claims: stubClaims{subject: "user-1"}}
	app := newTestApp(jwtware.Config{
		TokenValidator: validator,
		TokenLookup:    "header:" + fiber.HeaderAuthorization + ",query:auth_token",
	})

	// header missing, query carries the token
	req := httptest.NewRequest(http.MethodGet, "/protected?auth_token=good-token", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestFilterSkipsMiddleware(t *testing.T) {
	validator := stubValidator{accept: "good-token", claims: stubClaims{subject: "user-1"}}

	app := fiber.New()
	app.Get("/maybe", jwtware.New(jwtware.Config{
		TokenValidator: validator,
		Filter:         func(c *fiber.Ctx) bool { return c.Query("skip") == "1" },
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/maybe?skip=1", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSuccessHandlerRuns(t *testing.T) {
	validator := stubValidator{accept: "good-token", claims: stubClaims{subject: "user-1"}}

	ran := false
	app := fiber.New()
	app.Get("/protected", jwtware.New(jwtware.Config{
		TokenValidator: validator,
		ContextKey:     "session",
		SuccessHandler: func(c *fiber.Ctx) error {
			ran = true
			claims, ok := c.Locals("session").(jwtware.AuthClaims)
			if !ok {
				return c.SendStatus(fiber.StatusInternalServerError)
			}
			assert.Equal(t, "user-1", claims.UserID())
			return c.Next()
		},
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, ran)
}

func TestGetExtractorsParsesLookups(t *testing.T) {
	extractors := jwtware.GetExtractors("header:Authorization, query:token, cookie:jwt")
	assert.Len(t, extractors, 3)
}
