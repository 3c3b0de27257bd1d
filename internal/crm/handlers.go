package crm

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves /api/certificates with the flat {success|found, error}
// bodies the UI expects.
type Handlers struct {
	Gateway *Gateway
}

// POST /api/certificates
func (h *Handlers) Issue(c *fiber.Ctx) error {
	var body IssueInput
	if err := c.BodyParser(&body); err != nil || body.Code == "" || body.Amount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrAmountRequired.Error()})
	}
	res, err := h.Gateway.Issue(c.UserContext(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GET /api/certificates?code=
func (h *Handlers) Verify(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrCodeRequired.Error()})
	}
	res, err := h.Gateway.Verify(c.UserContext(), code)
	if err != nil {
		return writeError(c, err)
	}
	if !res.Found {
		return c.Status(fiber.StatusNotFound).JSON(res)
	}
	return c.JSON(res)
}

// PATCH /api/certificates
func (h *Handlers) Redeem(c *fiber.Ctx) error {
	var body struct {
		Code    string          `json:"code"`
		CRMID   json.RawMessage `json:"crm_id"`
		OrderID json.RawMessage `json:"order_id"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}
	in := RedeemInput{Code: body.Code, OrderRef: rawString(body.OrderID)}
	if id := rawString(body.CRMID); id != "" {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "crm_id must be a positive integer"})
		}
		in.ExternalID = n
	}
	res, err := h.Gateway.Redeem(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// MethodNotAllowed is mounted after the supported verbs.
func MethodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "Method not allowed"})
}

func writeError(c *fiber.Ctx, err error) error {
	var re *RemoteError
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrCodeRequired), errors.Is(err, ErrAmountRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &re):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": re.Message})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// rawString reads a JSON scalar that may arrive as a number or a string.
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return ""
	}
	return string(raw)
}
