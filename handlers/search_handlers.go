package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kajiwara22/sf6chapter/internal/duck"
	"github.com/kajiwara22/sf6chapter/internal/search"
	"github.com/kajiwara22/sf6chapter/models"
	"github.com/kajiwara22/sf6chapter/utils"
)

// SearchMatches runs a filtered match search against the loaded dataset.
func (h *ApplicationHandler) SearchMatches(c *fiber.Ctx) error {
	var filters models.SearchFilters
	if err := c.QueryParser(&filters); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid search parameters: "+err.Error())
	}
	normalizeFilters(&filters)

	if err := h.Validate.Struct(filters); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid search parameters",
				"errors":  utils.FormatValidationErrors(err),
			})
		}
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid search parameters")
	}

	if !h.Search.Ready() {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Dataset is not loaded")
	}

	matches, err := h.Search.SearchMatches(c.Context(), filters)
	if err != nil {
		return h.searchError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, matches)
}

// GetStats returns totals and per-character counts for the dataset.
func (h *ApplicationHandler) GetStats(c *fiber.Ctx) error {
	if !h.Search.Ready() {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Dataset is not loaded")
	}
	stats, err := h.Search.GetStats(c.Context())
	if err != nil {
		return h.searchError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, stats)
}

// ListCharacters returns the characters present in the dataset, for
// populating the filter dropdowns.
func (h *ApplicationHandler) ListCharacters(c *fiber.Ctx) error {
	if !h.Search.Ready() {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Dataset is not loaded")
	}
	characters, err := h.Search.ListCharacters(c.Context())
	if err != nil {
		return h.searchError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, characters)
}

// searchError maps core errors onto the response policy: session-fatal
// faults are 503 and persist, request-scoped faults are 500 and clear
// on the next successful search.
func (h *ApplicationHandler) searchError(c *fiber.Ctx, err error) error {
	var initErr *duck.InitError
	var loadErr *duck.LoadError
	var rowErr *search.MalformedRowError

	switch {
	case errors.As(err, &initErr), errors.As(err, &loadErr):
		h.Log.WithError(err).Error("Session-fatal search failure")
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Search engine is unavailable")
	case errors.As(err, &rowErr):
		h.Log.WithError(err).Error("Dataset integrity fault")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Dataset returned a malformed row")
	default:
		h.Log.WithError(err).Error("Search query failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Search failed")
	}
}

// normalizeFilters trims every string field and treats empty strings
// as absent, per the input contract with the presentation layer.
func normalizeFilters(f *models.SearchFilters) {
	f.Character = strings.TrimSpace(f.Character)
	f.Character2 = strings.TrimSpace(f.Character2)
	f.VideoTitle = strings.TrimSpace(f.VideoTitle)
	f.DateFrom = strings.TrimSpace(f.DateFrom)
	f.DateTo = strings.TrimSpace(f.DateTo)
	f.SortBy = strings.TrimSpace(f.SortBy)
}
