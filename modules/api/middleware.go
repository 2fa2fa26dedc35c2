package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vinayytyagi/lineup/modules/auth"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"

	// UserCookieName and AdminCookieName are the session cookies. Both are
	// httpOnly; the browser never exposes the tokens to scripts.
	UserCookieName  = "lineup_auth"
	AdminCookieName = "lineup_admin"

	// Cookie lifetimes in seconds, matching the token lifetimes.
	userCookieMaxAge  = 30 * 24 * 60 * 60
	adminCookieMaxAge = 7 * 24 * 60 * 60
)

// AuthMiddleware creates a middleware that validates the user session cookie.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(UserCookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Not logged in",
			})
		}

		claims, err := authAdapter.ValidateSession(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired session",
			})
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// AdminMiddleware creates a middleware that validates the admin session cookie.
func AdminMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AdminCookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Admin login required",
			})
		}

		if err := authAdapter.ValidateAdminSession(c.UserContext(), token); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired admin session",
			})
		}

		return c.Next()
	}
}

// setSessionCookie writes a session cookie for the given lifetime.
func setSessionCookie(c *fiber.Ctx, name, token string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie expires a session cookie.
func clearSessionCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
