// controllers/salon.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/cheikhabdou2024/Dakar-cut/services"
	"github.com/cheikhabdou2024/Dakar-cut/utils"
	"github.com/gin-gonic/gin"
)

type SalonController struct {
	Directory *services.Directory
}

// ListSalonsQuery defines the accepted query parameters for the salon listing
type ListSalonsQuery struct {
	Q        string   `form:"q"`
	Services string   `form:"services"`
	Sort     string   `form:"sort" binding:"omitempty,oneof=rating distance"`
	Lat      *float64 `form:"lat" binding:"omitempty,min=-90,max=90"`
	Lng      *float64 `form:"lng" binding:"omitempty,min=-180,max=180"`
}

// ListSalons returns salons filtered by text and services, optionally sorted
func (sc *SalonController) ListSalons(c *gin.Context) {
	var input ListSalonsQuery
	if err := c.ShouldBindQuery(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	query := services.SalonQuery{
		Text:     input.Q,
		Services: utils.SplitList(input.Services),
		Sort:     input.Sort,
	}
	if input.Lat != nil && input.Lng != nil {
		query.Origin = &services.Coordinate{Lat: *input.Lat, Lng: *input.Lng}
	}

	salons, err := sc.Directory.List(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(len(salons)))
	c.JSON(http.StatusOK, salons)
}

// GetSalon returns one salon with its services, stylists and reviews
func (sc *SalonController) GetSalon(c *gin.Context) {
	salon, err := sc.Directory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, salon)
}
