package chat

import (
	stderrors "errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/ponyexpress/chat/middleware/jwtware"
)

// RouteAuthenticator wires the Authenticator into fiber routes: it issues
// tokens on login and guards protected routes through the jwtware middleware.
type RouteAuthenticator struct {
	auth         Authenticator
	cfg          Config
	Logger       Logger
	ErrorHandler func(c *fiber.Ctx, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	a.ErrorHandler = RenderError

	return a, nil
}

// ProtectedRoute guards a route group behind bearer token validation.
func (a *RouteAuthenticator) ProtectedRoute(cfg Config, errorHandler fiber.ErrorHandler) fiber.Handler {
	var service TokenService
	if provider, ok := a.auth.(interface{ TokenService() TokenService }); ok {
		service = provider.TokenService()
	} else {
		service = NewTokenService(
			[]byte(cfg.GetSigningKey()),
			cfg.GetTokenExpiration(),
			cfg.GetIssuer(),
			cfg.GetAudience(),
			a.Logger,
		)
	}

	return jwtware.New(jwtware.Config{
		ErrorHandler:   errorHandler,
		TokenValidator: middlewareTokenValidator{service: service},
		AuthScheme:     cfg.GetAuthScheme(),
		ContextKey:     cfg.GetContextKey(),
		TokenLookup:    cfg.GetTokenLookup(),
		SuccessHandler: func(c *fiber.Ctx) error {
			if claims, ok := c.Locals(cfg.GetContextKey()).(AuthClaims); ok {
				c.SetUserContext(WithClaimsContext(c.UserContext(), claims))
			}
			return c.Next()
		},
	})
}

func (a *RouteAuthenticator) Login(ctx *fiber.Ctx, payload LoginPayload) (string, error) {
	token, err := a.auth.Login(ctx.UserContext(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error", "error", err)
		return "", err
	}

	return token, nil
}

func (a *RouteAuthenticator) Session(ctx *fiber.Ctx) (*SessionObject, error) {
	return GetRouteSession(ctx, a.cfg.GetContextKey())
}

// Identity resolves the authenticated user behind the request's session.
func (a *RouteAuthenticator) Identity(ctx *fiber.Ctx) (Identity, error) {
	session, err := a.Session(ctx)
	if err != nil {
		return nil, err
	}
	return a.auth.IdentityFromSession(ctx.UserContext(), session)
}

func (a *RouteAuthenticator) MakeRouteAuthErrorHandler(optional bool) func(*fiber.Ctx, error) error {
	return func(ctx *fiber.Ctx, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding", "error", richErr.Message)
			return ctx.Next()
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

// GetRouteSession pulls the session the jwtware middleware stored for the
// request.
func GetRouteSession(c *fiber.Ctx, key string) (*SessionObject, error) {
	raw := c.Locals(key)
	if raw == nil {
		return nil, ErrUnableToFindSession
	}

	claims, ok := raw.(AuthClaims)
	if claims == nil || !ok {
		return nil, ErrUnableToDecodeSession
	}

	return sessionFromAuthClaims(claims)
}

// LoginPayload describes the credentials carried by a token request.
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}

// RenderError writes a rich error as the JSON error envelope. The TextCode
// becomes the wire "type" and any metadata is flattened into the body.
func RenderError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	body := fiber.Map{
		"type":    richErr.TextCode,
		"message": richErr.Message,
	}

	for k, v := range richErr.Metadata {
		body[k] = v
	}

	return c.Status(statusFromError(richErr)).JSON(body)
}

// RenderValidationError reports per-field failures from an ozzo validation
// run.
func RenderValidationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"type":   "validation_error",
		"errors": FormatValidationErrorToMap(err),
	})
}

func statusFromError(err *errors.Error) int {
	switch err.Category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict, errors.CategoryValidation:
		return http.StatusUnprocessableEntity
	case errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		if err.Code >= http.StatusBadRequest {
			return err.Code
		}
		return http.StatusInternalServerError
	}
}

// FormatValidationErrorToMap flattens ozzo validation errors into a field to
// message map.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	if err != nil {
		out["payload"] = err.Error()
	}

	return out
}

// NewErrorHandler builds the app level fiber error handler.
func NewErrorHandler(logger Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			logger.Info(
				"request error",
				"error", richErr.Message,
				"category", richErr.Category,
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
			return RenderError(c, richErr)
		}

		var fiberErr *fiber.Error
		if stderrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"type":    "http_error",
				"message": fiberErr.Message,
			})
		}

		logger.Error("unhandled request error", "error", err)
		return RenderError(c, err)
	}
}
