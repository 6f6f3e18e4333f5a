package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func parseLimitOffset(c *fiber.Ctx, defLimit int) (limit, offset int) {
	limit = defLimit
	offset = 0
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := strings.TrimSpace(c.Query("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// queryPositiveInt reads the first non-empty query value among names.
// Clients send id parameters in both lowercase and camelCase.
func queryPositiveInt(c *fiber.Ctx, names ...string) (int64, bool) {
	for _, name := range names {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			return parsePositiveInt(v)
		}
	}
	return 0, false
}
