// controllers/review.go
package controllers

import (
	"net/http"

	"github.com/cheikhabdou2024/Dakar-cut/services"
	"github.com/cheikhabdou2024/Dakar-cut/utils"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

// CreateReviewInput defines the expected JSON structure for a review
type CreateReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" binding:"max=2000"`
}

// CreateReview attaches a review to a completed appointment
func (rc *ReviewController) CreateReview(c *gin.Context) {
	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	review, err := rc.Reviews.Submit(c.Request.Context(), services.ReviewRequest{
		AppointmentID: c.Param("id"),
		Rating:        input.Rating,
		Comment:       input.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}
