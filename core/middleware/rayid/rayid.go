package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the header used to propagate the request's ray ID.
const HeaderName = "X-Ray-ID"

// New returns a middleware that assigns a ray ID to every request.
//
// If the incoming request already carries an X-Ray-ID header (e.g. from an
// upstream proxy), that value is reused so traces stay connected across hops.
// The ID is stored in locals under "ray_id" and echoed in the response header.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
