package apiutil

import (
	"strconv"

	"moviestream-app/internal/domain/apperr"

	"github.com/gin-gonic/gin"
)

// Error writes a service error with the status its sentinel maps to.
func Error(c *gin.Context, err error) {
	c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
}

// QueryInt reads an integer query param with a fallback.
func QueryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// QueryBool reads an optional boolean query param; nil means absent.
func QueryBool(c *gin.Context, key string) *bool {
	if v := c.Query(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}
