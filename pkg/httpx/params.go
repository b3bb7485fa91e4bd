package httpx

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrBadPagination — limit/offset не числа или вне допустимого диапазона.
var ErrBadPagination = errors.New("limit must be a positive integer and offset a non-negative integer")

// ClampInt — ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseLimitOffset — limit/offset из query. Отсутствующие параметры берут дефолты,
// limit сверх maxLimit обрезается, мусор и отрицательные значения — ErrBadPagination.
func ParseLimitOffset(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int, err error) {
	limit = ClampInt(defaultLimit, 1, maxLimit)
	if raw, ok := c.GetQuery("limit"); ok {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 1 {
			return 0, 0, ErrBadPagination
		}
		limit = ClampInt(v, 1, maxLimit)
	}
	if raw, ok := c.GetQuery("offset"); ok {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 0 {
			return 0, 0, ErrBadPagination
		}
		offset = v
	}
	return limit, offset, nil
}
