// controllers/booking.go
package controllers

import (
	"net/http"

	"github.com/cheikhabdou2024/Dakar-cut/availability"
	"github.com/cheikhabdou2024/Dakar-cut/services"
	"github.com/cheikhabdou2024/Dakar-cut/utils"
	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings *services.BookingService
}

// AvailabilityQuery defines the query parameters of an availability lookup
type AvailabilityQuery struct {
	Date     string `form:"date" binding:"required"`
	Services string `form:"services"`
	Stylist  string `form:"stylist"`
	Selected string `form:"selected"`
	Trigger  string `form:"trigger"`
}

// CreateAppointmentInput defines the expected JSON structure for a booking
type CreateAppointmentInput struct {
	ServiceIDs    []string `json:"serviceIds"`
	StylistID     string   `json:"stylistId"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	CustomerPhone string   `json:"customerPhone" binding:"omitempty,max=32"`
}

// GetAvailability recomputes bookable times for the salon and date. When the
// caller's selected time is no longer bookable the response has cleared=true.
func (bc *BookingController) GetAvailability(c *gin.Context) {
	var input AvailabilityQuery
	if err := c.ShouldBindQuery(&input); err != nil {
		utils.RespondWithCode(c, http.StatusBadRequest, services.CodeInvalidDate, "Invalid input: "+err.Error())
		return
	}

	view, err := bc.Bookings.AvailableSlots(c.Request.Context(), services.AvailabilityQuery{
		SalonID:    c.Param("id"),
		Date:       input.Date,
		ServiceIDs: utils.SplitList(input.Services),
		Stylist:    input.Stylist,
		Selected:   input.Selected,
		Trigger:    availability.ParseTrigger(input.Trigger),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CreateAppointment confirms a booking
func (bc *BookingController) CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := bc.Bookings.Confirm(c.Request.Context(), services.ConfirmRequest{
		SalonID:       c.Param("id"),
		ServiceIDs:    input.ServiceIDs,
		StylistID:     input.StylistID,
		Date:          input.Date,
		Time:          input.Time,
		CustomerPhone: input.CustomerPhone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// ListSalonAppointments lists a salon's appointments, optionally for one date
func (bc *BookingController) ListSalonAppointments(c *gin.Context) {
	appts, err := bc.Bookings.ListForSalon(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (bc *BookingController) GetAppointment(c *gin.Context) {
	appt, err := bc.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (bc *BookingController) CancelAppointment(c *gin.Context) {
	appt, err := bc.Bookings.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (bc *BookingController) CompleteAppointment(c *gin.Context) {
	appt, err := bc.Bookings.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
