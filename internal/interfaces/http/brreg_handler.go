package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/enkelfaktura/faktura-api/internal/application/dto"
	"github.com/enkelfaktura/faktura-api/internal/infrastructure/brreg"
)

// BrregHandler proxies organization lookups against Enhetsregisteret, so the
// frontend can prefill party forms from an org number or a name search.
type BrregHandler struct {
	registry brreg.Registry
}

// NewBrregHandler builds the handler.
func NewBrregHandler(registry brreg.Registry) *BrregHandler {
	return &BrregHandler{registry: registry}
}

// Search GET /api/registry/search?name=firma&limit=10
func (h *BrregHandler) Search(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name is required"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	units, err := h.registry.Search(c.Context(), name, limit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REGISTRY_UNAVAILABLE", Message: err.Error()})
	}
	return c.JSON(units)
}

// GetByOrgNumber GET /api/registry/:orgnr
func (h *BrregHandler) GetByOrgNumber(c *fiber.Ctx) error {
	orgnr := c.Params("orgnr")
	if len(orgnr) != 9 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "org number must be nine digits"})
	}
	unit, err := h.registry.GetByOrgNumber(c.Context(), orgnr)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REGISTRY_UNAVAILABLE", Message: err.Error()})
	}
	if unit == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "organization not found"})
	}
	return c.JSON(unit)
}
