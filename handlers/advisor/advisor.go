package advisor

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/bosala-platform/bosala-api/handlers"
	"github.com/bosala-platform/bosala-api/model"
	"github.com/bosala-platform/bosala-api/services"
	"github.com/bosala-platform/bosala-api/utils/response"
	"github.com/bosala-platform/bosala-api/utils/validation"
)

// defaultTopN is the shortlist length when the caller does not ask for one.
const defaultTopN = 10

// AdvisorHandler serves the "رُشد" advisor flows: the deterministic scored
// shortlist, optionally re-ranked by the external model.
type AdvisorHandler struct {
	shortlist *services.ShortlistService
	advisor   *services.AdvisorService
	validator *validation.Validator
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(shortlist *services.ShortlistService, advisor *services.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{
		shortlist: shortlist,
		advisor:   advisor,
		validator: validation.NewValidator(),
	}
}

func (h *AdvisorHandler) parseProfile(c *fiber.Ctx) (model.StudentProfile, error) {
	var profile model.StudentProfile
	if err := c.BodyParser(&profile); err != nil {
		return profile, err
	}
	if err := h.validator.ValidateStruct(profile); err != nil {
		return profile, err
	}

	profile.TargetCountry = validation.SanitizeString(profile.TargetCountry)
	profile.FieldOfStudy = validation.SanitizeString(profile.FieldOfStudy)
	profile.PreferredCity = validation.SanitizeString(profile.PreferredCity)
	profile.InstitutionType = validation.SanitizeString(profile.InstitutionType)
	return profile, nil
}

func validationResponse(c *fiber.Ctx, err error) error {
	if fields := validation.FormatValidationErrors(err); len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}
	return response.ValidationError(c, err)
}

// BuildShortlist handles POST /api/v1/advisor/shortlist
func (h *AdvisorHandler) BuildShortlist(c *fiber.Ctx) error {
	profile, err := h.parseProfile(c)
	if err != nil {
		return validationResponse(c, err)
	}

	topN, _ := strconv.Atoi(c.Query("top", strconv.Itoa(defaultTopN)))

	entries, err := h.shortlist.Build(profile, topN)
	if err != nil {
		return handlers.DatasetError(c, err)
	}

	return response.Success(c, fiber.Map{
		"profile":   profile,
		"shortlist": entries,
	})
}

// RankShortlist handles POST /api/v1/advisor/rank. The model call is
// bounded by the request context; a missing credential or an unusable
// model response degrades to the scored shortlist, never a failure.
func (h *AdvisorHandler) RankShortlist(c *fiber.Ctx) error {
	profile, err := h.parseProfile(c)
	if err != nil {
		return validationResponse(c, err)
	}

	entries, err := h.shortlist.Build(profile, defaultTopN)
	if err != nil {
		return handlers.DatasetError(c, err)
	}

	result, err := h.advisor.Rank(c.Context(), profile, entries)
	if err != nil {
		if errors.Is(err, services.ErrAdvisorUnavailable) {
			return response.SuccessWithMessage(c,
				"AI ranking is not configured; returning the scored shortlist only",
				fiber.Map{
					"profile":    profile,
					"shortlist":  entries,
					"ai_ranking": nil,
				})
		}
		return response.InternalServerError(c, "Ranking request failed")
	}

	return response.Success(c, fiber.Map{
		"profile":    profile,
		"shortlist":  entries,
		"ai_ranking": result,
	})
}
