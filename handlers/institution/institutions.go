package institution

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bosala-platform/bosala-api/handlers"
	"github.com/bosala-platform/bosala-api/model"
	"github.com/bosala-platform/bosala-api/services"
	"github.com/bosala-platform/bosala-api/utils/response"
	"github.com/bosala-platform/bosala-api/utils/validation"
)

// InstitutionHandler serves the browse/filter/compare views over the
// universities table.
type InstitutionHandler struct {
	filters   *services.FilterService
	validator *validation.Validator
}

// NewInstitutionHandler creates a new institution handler
func NewInstitutionHandler(filters *services.FilterService) *InstitutionHandler {
	return &InstitutionHandler{
		filters:   filters,
		validator: validation.NewValidator(),
	}
}

// CompareRequest selects 2 to 4 institutions for the comparison view.
type CompareRequest struct {
	IDs []string `json:"ids" validate:"required,min=2,max=4,dive,required"`
}

// ListInstitutions handles GET /api/v1/institutions
func (h *InstitutionHandler) ListInstitutions(c *fiber.Ctx) error {
	// Parse query parameters
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	scholarship, ok := model.ParseAvailability(c.Query("scholarship", ""))
	if !ok {
		return response.BadRequest(c, "scholarship must be Yes, No or Unknown")
	}

	filter := model.InstitutionFilter{
		Country:     validation.SanitizeString(c.Query("country", "")),
		Type:        validation.SanitizeString(c.Query("type", "")),
		City:        validation.SanitizeString(c.Query("city", "")),
		Search:      validation.SanitizeString(c.Query("search", "")),
		Scholarship: scholarship,
	}
	if tags := c.Query("tags", ""); tags != "" {
		filter.Tags = model.SplitTags(tags)
	}

	sortKey := model.SortNone
	if c.Query("sort", "") == string(model.SortLocation) {
		sortKey = model.SortLocation
	}

	matched, err := h.filters.FilterInstitutions(filter, sortKey)
	if err != nil {
		return handlers.DatasetError(c, err)
	}

	// Paginate the filtered view
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

// GetFacets handles GET /api/v1/institutions/facets
func (h *InstitutionHandler) GetFacets(c *fiber.Ctx) error {
	facets, err := h.filters.InstitutionFacets()
	if err != nil {
		return handlers.DatasetError(c, err)
	}
	return response.Success(c, facets)
}

// GetInstitution handles GET /api/v1/institutions/:id
func (h *InstitutionHandler) GetInstitution(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	inst, found, err := h.filters.InstitutionByID(id)
	if err != nil {
		return handlers.DatasetError(c, err)
	}
	if !found {
		return response.NotFound(c, "Institution not found")
	}

	return response.Success(c, fiber.Map{
		"institution":            inst,
		"scholarship":            inst.ScholarshipAvailability(),
		"scholarship_categories": inst.ScholarshipCategories(),
	})
}

// CompareInstitutions handles POST /api/v1/institutions/compare
func (h *InstitutionHandler) CompareInstitutions(c *fiber.Ctx) error {
	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		if fields := validation.FormatValidationErrors(err); len(fields) > 0 {
			return response.ValidationFailed(c, fields)
		}
		return response.ValidationError(c, err)
	}

	for i := range req.IDs {
		req.IDs[i] = validation.SanitizeString(req.IDs[i])
	}

	insts, err := h.filters.Compare(req.IDs)
	if err != nil {
		return handlers.DatasetError(c, err)
	}
	if len(insts) < 2 {
		return response.NotFound(c, "At least two of the selected institutions must exist")
	}

	return response.Success(c, insts)
}
