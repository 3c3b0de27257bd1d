package health

import (
	"encoding/json"
	"strconv"
	"time"

	"fenix-certificates/internal/middleware"
	"fenix-certificates/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const serviceName = "fenix-certificates"

type Handlers struct {
	Checker        *Checker
	HealthAdminKey string
}

// GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := h.Checker.Collect(c.UserContext())
	return c.JSON(fiber.Map{
		"service":      serviceName,
		"storeDriver":  h.Checker.StoreDriver,
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}

// GET /health/errors returns the most recent server errors, newest first.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	if h.Checker.Rdb == nil {
		return c.JSON([]interface{}{})
	}
	entries, err := h.Checker.Rdb.LRange(c.UserContext(), middleware.KeyErrorLog, 0, middleware.ErrorLogSize-1).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	out := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if json.Unmarshal([]byte(s), &m) == nil {
			out = append(out, m)
		}
	}
	return c.JSON(out)
}

// GET /health/reset?key= clears request stats.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	if h.Checker.Rdb == nil {
		return response.Error(c, "Request stats are not enabled", fiber.StatusConflict, nil)
	}
	ctx := c.UserContext()
	if err := h.Checker.Rdb.Del(ctx, middleware.StatKeys...).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if err := h.Checker.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}
