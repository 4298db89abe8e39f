package controllers

import (
	"errors"
	"net/http"

	"github.com/cheikhabdou2024/Dakar-cut/services"
	"github.com/cheikhabdou2024/Dakar-cut/store"
	"github.com/cheikhabdou2024/Dakar-cut/utils"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors to HTTP responses:
// validation 400 (409 for a taken slot), missing 404, storage 503.
func respondServiceError(c *gin.Context, err error) {
	var (
		vErr *services.ValidationError
		sErr *services.StorageError
	)
	switch {
	case errors.As(err, &vErr):
		status := http.StatusBadRequest
		if vErr.Code == services.CodeSlotUnavailable || vErr.Code == services.CodeAlreadyReviewed ||
			vErr.Code == services.CodeInvalidStatus {
			status = http.StatusConflict
		}
		if vErr.Code == services.CodeUnknownSalon {
			status = http.StatusNotFound
		}
		c.AbortWithStatusJSON(status, utils.ErrorResponse{Error: vErr.Message, Code: vErr.Code, Slots: vErr.Slots})
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithCode(c, http.StatusNotFound, "not_found", "Not found")
	case errors.As(err, &sErr):
		c.Header("Retry-After", "1")
		utils.RespondWithCode(c, http.StatusServiceUnavailable, "storage_unavailable", "Storage is temporarily unavailable, please retry")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
