package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/application-tracker/internal/apperr"
)

// respondError maps the service error taxonomy onto HTTP. Anything outside
// it is logged and reported as an opaque 500.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var (
		nf   *apperr.NotFoundError
		val  *apperr.ValidationError
		conf *apperr.ConflictError
		un   *apperr.UnauthorizedError
	)
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{
			"error":  nf.Entity + " not found",
			"entity": strings.ToLower(nf.Entity),
		})
	case errors.As(err, &val):
		body := gin.H{"error": val.Reason}
		if val.Field != "" {
			body["field"] = val.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &conf):
		c.JSON(http.StatusConflict, gin.H{"error": conf.Error()})
	case errors.As(err, &un):
		c.JSON(http.StatusUnauthorized, gin.H{"error": un.Reason})
	default:
		log.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
}

// idParam reads a positive integer path parameter, answering 400 itself
// when it is malformed.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name), "field": name})
		return 0, false
	}
	return uint(id), true
}
