package rayid_test

import (
	"net/http/httptest"
	"testing"

	"tablediff/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("GeneratesID", func(t *testing.T) {
		// Setup app with middleware and a probe handler
		app := fiber.New()
		app.Use(rayid.New())

		var seen string
		app.Get("/", func(c *fiber.Ctx) error {
			seen, _ = c.Locals("ray_id").(string)
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest("GET", "/", nil)
		resp, err := app.Test(req, 2000)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		// The generated ID is stored in locals and echoed in the header
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, resp.Header.Get(rayid.HeaderName))
	})

	t.Run("ReusesIncomingID", func(t *testing.T) {
		app := fiber.New()
		app.Use(rayid.New())

		var seen string
		app.Get("/", func(c *fiber.Ctx) error {
			seen, _ = c.Locals("ray_id").(string)
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(rayid.HeaderName, "upstream-ray-42")
		resp, err := app.Test(req, 2000)
		assert.NoError(t, err)

		assert.Equal(t, "upstream-ray-42", seen)
		assert.Equal(t, "upstream-ray-42", resp.Header.Get(rayid.HeaderName))
	})

	t.Run("UniquePerRequest", func(t *testing.T) {
		app := fiber.New()
		app.Use(rayid.New())
		app.Get("/", func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		first, err := app.Test(httptest.NewRequest("GET", "/", nil), 2000)
		assert.NoError(t, err)
		second, err := app.Test(httptest.NewRequest("GET", "/", nil), 2000)
		assert.NoError(t, err)

		assert.NotEqual(t, first.Header.Get(rayid.HeaderName), second.Header.Get(rayid.HeaderName))
	})
}
