package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// tokenLocal is the request-local key holding the caller's bearer token.
const tokenLocal = "auth_token"

// SessionCookie is the cookie carrying the signed-in user's session token.
const SessionCookie = "webstatus_session"

// RequireAuth extracts the caller's token from the session cookie or the
// Authorization header. Unauthenticated requests get a 401 with a login
// redirect hint and a toast message instead of a hard error page.
func RequireAuth(loginURL string) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":     "Sign-in required",
				"login_url": loginURL,
				"toast":     "Please sign in to manage your saved searches and notifications.",
			})
		}

		c.Locals(tokenLocal, token)
		return c.Next()
	}
}

// Token returns the bearer token stashed by RequireAuth, or "".
func Token(c fiber.Ctx) string {
	token, _ := c.Locals(tokenLocal).(string)
	return token
}
