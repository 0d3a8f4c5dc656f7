package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header is the response header carrying the ray id.
	Header = "X-Ray-ID"
	// LocalKey is the fiber locals key holding the ray id.
	LocalKey = "ray_id"
	// RequestHeader lets a caller supply its own id.
	RequestHeader = "X-Request-ID"
)

// New returns a middleware that assigns a ray id to every request.
// A valid incoming X-Request-ID is reused so ids can be traced end to end.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Locals(LocalKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}

// Get returns the ray id of the request, or an empty string.
func Get(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalKey).(string)
	return id
}
