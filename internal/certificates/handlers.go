package certificates

import (
	"errors"

	"fenix-certificates/internal/constants"
	"fenix-certificates/internal/pkg/response"
	"fenix-certificates/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/certificates
func (h *Handlers) List(c *fiber.Ctx) error {
	views, err := h.Service.Views()
	if err != nil {
		log.Error().Err(err).Msg("Failed to render certificate history")
		return response.Internal(c)
	}
	return response.Success(c, "Certificates fetched successfully", views, fiber.Map{"count": len(views)})
}

// POST /api/v1/certificates
func (h *Handlers) Issue(c *fiber.Ctx) error {
	var body IssueRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	result, err := h.Service.Issue(c.UserContext(), body)
	if err != nil {
		if isValidationError(err) {
			return response.BadRequest(c, err.Error())
		}
		log.Error().Err(err).Msg("Failed to issue certificate")
		return response.Internal(c)
	}
	return response.SuccessCreated(c, "Certificate issued successfully", result, nil)
}

// GET /api/v1/certificates/code
func (h *Handlers) PreviewCode(c *fiber.Ctx) error {
	code, err := h.Service.Codes.Generate()
	if err != nil {
		return response.Internal(c)
	}
	return response.Success(c, "Code generated successfully", fiber.Map{"code": code}, nil)
}

// GET /api/v1/certificates/:id
func (h *Handlers) ViewOne(c *fiber.Ctx) error {
	v, err := h.Service.ViewByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Internal(c)
	}
	return response.Success(c, "Certificate fetched successfully", v, nil)
}

// GET /api/v1/certificates/:id/crm-text
func (h *Handlers) CRMText(c *fiber.Ctx) error {
	v, err := h.Service.ViewByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Internal(c)
	}
	return c.Type("txt", "utf-8").SendString(v.CRMText)
}

// DELETE /api/v1/certificates?confirm=true
func (h *Handlers) Clear(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return response.BadRequest(c, "Clearing the history requires confirm=true")
	}
	h.Service.Store.Clear(c.UserContext())
	log.Info().Msg("Certificate history cleared")
	return response.Success(c, "Certificate history cleared", []interface{}{}, nil)
}

// GET /api/v1/presets
func (h *Handlers) Presets(c *fiber.Ctx) error {
	return response.Success(c, "Presets fetched successfully", fiber.Map{
		"amounts":         constants.PresetAmounts,
		"company_name":    constants.CompanyName,
		"website_url":     constants.WebsiteURL,
		"default_manager": constants.DefaultManager,
		"currency":        constants.Currency,
	}, nil)
}

func isValidationError(err error) bool {
	for _, target := range []error{
		validation.ErrAmountRequired, validation.ErrAmountNotInt, validation.ErrAmountNotPos,
		ErrMissingCode, ErrInvalidCode, ErrNotPreset, ErrInvalidAmount, ErrInvalidExpiry, ErrNameTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
