package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commune-net/commune/services"
	"github.com/commune-net/commune/utils"
)

// serviceError maps the service error taxonomy onto the JSON envelope. Store
// failures are surfaced with their message, matching the propagation policy
// of the access layer: no retries, no swallowing, no partial responses.
func serviceError(ctx *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrAuthenticationRequired):
		utils.Error(ctx, http.StatusUnauthorized, 40110, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, err.Error())
	case errors.As(err, &validationErr):
		utils.Error(ctx, http.StatusBadRequest, 40010, validationErr.Reason)
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("store failure: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50000, err.Error())
	}
}
