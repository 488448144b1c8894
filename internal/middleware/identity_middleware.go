package middleware

import (
	"stickerboard/internal/identity"

	"github.com/gofiber/fiber/v2"
)

const localsUserKey = "user_id"

// ResolveIdentity is a Fiber middleware that runs the identity resolver once
// per request and stores the acting user id in the request context. It never
// rejects a request; handlers decide whether an identity is mandatory.
func ResolveIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := identity.Resolve(c.Get(identity.Header), c.Queries(), c.Body()); ok {
			c.Locals(localsUserKey, userID)
		}
		return c.Next()
	}
}

// UserID returns the acting user id resolved for this request, or "" when no
// valid identity was present.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localsUserKey).(string); ok {
		return id
	}
	return ""
}
