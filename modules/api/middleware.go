package api

import (
	"errors"
	"log"
	"strings"

	domain "github.com/example/event-planner/domain/user"
	"github.com/example/event-planner/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// IdentityContextKey is the key used to store the verified identity in the Fiber context.
	IdentityContextKey = "identity"

	codeMissingToken = "missing_token"
	codeForbidden    = "forbidden"
)

// ErrForbidden is returned when the caller does not own the resource.
var ErrForbidden = errors.New("forbidden")

var authMessages = map[string]string{
	auth.CodeMalformedToken:     "Invalid token",
	auth.CodeExpiredToken:       "Token has expired",
	auth.CodeWrongTokenClass:    "Wrong token type for this endpoint",
	auth.CodeInactive:           "User is inactive",
	auth.CodeUnknownSubject:     "User no longer exists",
	auth.CodeInvalidCredentials: "Invalid email or password",
}

// RequireAuth creates a middleware that admits requests carrying a valid
// access token. The identity it stores reflects the roles held now, not the
// ones embedded in the token.
func RequireAuth(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   codeMissingToken,
				Message: "Authorization header must be: Bearer <token>",
			})
		}

		identity, err := authPort.VerifyAccess(c.UserContext(), token)
		if err != nil {
			return authFailure(c, err)
		}

		c.Locals(IdentityContextKey, identity)
		return c.Next()
	}
}

// RequireRole admits only identities holding role. It must run after RequireAuth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   codeMissingToken,
				Message: "User not authenticated",
			})
		}
		if !identity.HasRole(role) {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   codeForbidden,
				Message: "Requires role " + role,
			})
		}
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(IdentityContextKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// Authorize reports ErrForbidden unless identity is ownerID.
func Authorize(identity *domain.Identity, ownerID uint) error {
	if identity == nil || identity.ID != ownerID {
		return ErrForbidden
	}
	return nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(c *fiber.Ctx) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authFailure maps an auth error to a 401 body naming the failure kind.
// Errors outside the auth taxonomy are internal.
func authFailure(c *fiber.Ctx, err error) error {
	code, ok := auth.ErrorCode(err)
	if !ok {
		return internalError(c, "token verification failed", err)
	}
	msg, ok := authMessages[code]
	if !ok {
		msg = "Unauthorized"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// internalError logs err and returns a 500 without exposing it.
func internalError(c *fiber.Ctx, what string, err error) error {
	log.Printf("[api] %s: %v", what, err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
