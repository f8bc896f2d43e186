package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RegisterRoutes exposes the recorder on path.
func RegisterRoutes(app *fiber.App, recorder *Recorder, path string) {
	app.Get(path, adaptor.HTTPHandler(recorder.Handler()))
}
