package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/showcasehq/showcase/pkg/errors"
	"github.com/showcasehq/showcase/pkg/validator"
)

// bindAndValidate decodes the JSON body into req and runs struct validation.
// Returns a client-facing AppError on any failure.
func bindAndValidate(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperrors.NewBadRequest("invalid request body")
	}
	if err := validator.ValidateStruct(req); err != nil {
		return apperrors.NewBadRequest(err.Error())
	}
	return nil
}

// parseIntQuery reads an integer query parameter, falling back on absence or garbage.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
