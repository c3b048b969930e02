package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/nightguard-api/internal/service"
	"github.com/noah-isme/nightguard-api/internal/utils"
)

// SessionCookie names the cookie carrying the session token.
const SessionCookie = "nightguard_session"

const (
	localUserID    = "user_id"
	localUserRole  = "user_role"
	localSessionID = "session_id"
	localPrincipal = "principal"
)

// Authenticator resolves a session token into its principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Principal, error)
}

// SessionAuth requires a valid session from the session cookie or a Bearer
// authorization header.
func SessionAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := SessionToken(c)
		if token == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, service.ErrUnauthenticated.Error())
		}

		principal, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				return utils.SendError(c, fiber.StatusUnauthorized, service.ErrUnauthenticated.Error())
			}
			return err
		}

		actor := principal.Actor()
		c.Locals(localUserID, actor.ID)
		c.Locals(localUserRole, actor.Role)
		c.Locals(localSessionID, principal.SessionID)
		c.Locals(localPrincipal, principal)

		return c.Next()
	}
}

// SessionToken returns the token sent with the request, preferring the cookie.
func SessionToken(c *fiber.Ctx) string {
	if cookie := strings.TrimSpace(c.Cookies(SessionCookie)); cookie != "" {
		return cookie
	}

	authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	const bearer = "bearer "
	if len(authorization) > len(bearer) && strings.EqualFold(authorization[:len(bearer)], bearer) {
		return strings.TrimSpace(authorization[len(bearer):])
	}
	return ""
}

// CurrentActor returns the authenticated actor of the request.
func CurrentActor(c *fiber.Ctx) (service.Actor, bool) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		return service.Actor{}, false
	}
	return principal.Actor(), true
}

// CurrentPrincipal returns the authenticated principal of the request.
func CurrentPrincipal(c *fiber.Ctx) (service.Principal, bool) {
	principal, ok := c.Locals(localPrincipal).(service.Principal)
	return principal, ok
}

// CurrentSessionID returns the session id of the request, if authenticated.
func CurrentSessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(localSessionID).(string)
	return id
}
