package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis keys for request stats, read back by the health endpoints.
const (
	KeyReqTotal  = "health:fenix:req_total"
	KeyReqErrors = "health:fenix:req_errors"
	KeyResTime   = "health:fenix:res_time_total"
	KeyResCount  = "health:fenix:res_count"
	KeyStartTime = "health:fenix:start_time"
	KeyLastReq   = "health:fenix:last_request"
	KeyErrorLog  = "health:fenix:error_log"
)

// ErrorLogSize caps the error log list.
const ErrorLogSize = 50

const statsTimeout = time.Second

// StatKeys lists every key HealthMarker writes.
var StatKeys = []string{KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq, KeyErrorLog}

// HealthMarker records request stats in Redis (skip /, /health*, favicon).
// Redis errors never fail the request.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)

		lastReq, _ := json.Marshal(fiber.Map{
			"time":   start.UTC(),
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		})
		pipe := rdb.Pipeline()
		pipe.Set(ctx, KeyLastReq, lastReq, 0)
		pipe.Incr(ctx, KeyReqTotal)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Debug().Err(err).Msg("Failed to record request stats")
		}
		cancel()

		err := c.Next()

		// Fresh deadline: the handler may have run past statsTimeout.
		ctx, cancel = context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		pipe = rdb.Pipeline()
		pipe.Incr(ctx, KeyResCount)
		pipe.IncrByFloat(ctx, KeyResTime, float64(time.Since(start).Milliseconds()))
		if status >= fiber.StatusInternalServerError {
			pipe.Incr(ctx, KeyReqErrors)
			msg := utils.StatusMessage(status)
			if err != nil {
				msg = err.Error()
			}
			entry, _ := json.Marshal(fiber.Map{
				"time":     start.UTC(),
				"path":     c.OriginalURL(),
				"method":   c.Method(),
				"status":   status,
				"message":  msg,
				"trace_id": GetTraceID(c),
			})
			pipe.LPush(ctx, KeyErrorLog, entry)
			pipe.LTrim(ctx, KeyErrorLog, 0, ErrorLogSize-1)
		}
		if _, perr := pipe.Exec(ctx); perr != nil {
			log.Debug().Err(perr).Msg("Failed to record response stats")
		}
		return err
	}
}
