package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination bounds shared by the admin API and the CLI list commands.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ParsePagination reads the offset and limit query parameters, defaulting to 0 and
// DefaultLimit.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, errInvalidOffset
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil {
		return 0, 0, errInvalidLimit
	}

	if err := ValidatePagination(offset, limit); err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

var (
	errInvalidOffset = fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	errInvalidLimit  = fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxLimit)
)

// ValidatePagination checks already parsed offset and limit values.
func ValidatePagination(offset, limit int) error {
	if offset < 0 {
		return errInvalidOffset
	}
	if limit < 1 || limit > MaxLimit {
		return errInvalidLimit
	}
	return nil
}
