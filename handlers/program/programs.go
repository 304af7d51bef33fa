package program

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/bosala-platform/bosala-api/handlers"
	"github.com/bosala-platform/bosala-api/model"
	"github.com/bosala-platform/bosala-api/services"
	"github.com/bosala-platform/bosala-api/utils/response"
	"github.com/bosala-platform/bosala-api/utils/validation"
)

// ProgramHandler serves the program browse/filter views, joined to owning
// institutions.
type ProgramHandler struct {
	filters *services.FilterService
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(filters *services.FilterService) *ProgramHandler {
	return &ProgramHandler{filters: filters}
}

// ListPrograms handles GET /api/v1/programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filter := model.ProgramFilter{
		Level:    validation.SanitizeString(c.Query("level", "")),
		Degree:   validation.SanitizeString(c.Query("degree", "")),
		Field:    validation.SanitizeString(c.Query("field", "")),
		Language: validation.SanitizeString(c.Query("language", "")),
		City:     validation.SanitizeString(c.Query("city", "")),
		Search:   validation.SanitizeString(c.Query("search", "")),
		// Institution-owned constraints resolved through the join
		Country:         validation.SanitizeString(c.Query("country", "")),
		InstitutionType: validation.SanitizeString(c.Query("institution_type", "")),
	}

	matched, err := h.filters.FilterPrograms(filter)
	if err != nil {
		return handlers.DatasetError(c, err)
	}

	total := int64(len(matched))
	pagination := response.CalculatePagination(page, limit, total)
	start := (pagination.CurrentPage - 1) * pagination.PerPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pagination.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	return response.Paginated(c, matched[start:end], pagination)
}

// GetFacets handles GET /api/v1/programs/facets
func (h *ProgramHandler) GetFacets(c *fiber.Ctx) error {
	facets, err := h.filters.ProgramFacets()
	if err != nil {
		return handlers.DatasetError(c, err)
	}
	return response.Success(c, facets)
}
