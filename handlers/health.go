package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bosala-platform/bosala-api/dataset"
	"github.com/bosala-platform/bosala-api/utils/response"
)

// HandleCheckHealth reports liveness plus per-table dataset status.
func HandleCheckHealth(store *dataset.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uniErr, programErr := store.Refresh()
		return c.JSON(fiber.Map{
			"status":       "ok",
			"universities": sourceStatus(uniErr),
			"programs":     sourceStatus(programErr),
		})
	}
}

func sourceStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, dataset.ErrSourceEmpty):
		return "empty"
	default:
		return "missing"
	}
}

// DatasetError maps a dataset load failure onto the response envelope.
// Only SourceNotFound/SourceEmpty are user-visible, and only for the view
// that depends on the missing table.
func DatasetError(c *fiber.Ctx, err error) error {
	var srcErr *dataset.SourceError
	if errors.As(err, &srcErr) {
		code := "SOURCE_NOT_FOUND"
		if errors.Is(err, dataset.ErrSourceEmpty) {
			code = "SOURCE_EMPTY"
		}
		return response.SourceUnavailable(c, srcErr.Error(), code)
	}
	return response.InternalServerError(c, "")
}
