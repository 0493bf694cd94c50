package handlers

import (
	"net/http"

	"wheelstrust/models"
	"wheelstrust/services/booking"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var bookingFilters = utils.Filterable{
	"status":          utils.StringField,
	"serviceProvider": utils.StringField,
	"user":            utils.StringField,
	"date":            utils.DateField,
	"time":            utils.StringField,
	"totalPrice":      utils.NumberField,
}

// availabilityQuery is the query of GET /bookings/check-availability/:id.
type availabilityQuery struct {
	Date string `form:"date" binding:"required,calendardate"`
	Time string `form:"time" binding:"omitempty,slot"`
}

// BookingHandler serves the booking endpoints.
type BookingHandler struct {
	BookingService booking.BookingService
}

func NewBookingHandler(bs booking.BookingService) *BookingHandler {
	return &BookingHandler{BookingService: bs}
}

// ListBookingsHandler handles GET /bookings.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	q, ok := listQuery(c, bookingFilters)
	if !ok {
		return
	}
	bookings, page, err := h.BookingService.ListBookings(c.Request.Context(), actor(c), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Page(c, "bookings", bookings, page)
}

// GetBookingHandler handles GET /bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	detail, err := h.BookingService.GetBooking(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, detail)
}

// ProviderBookingsHandler handles GET /bookings/provider/:id.
func (h *BookingHandler) ProviderBookingsHandler(c *gin.Context) {
	bookings, err := h.BookingService.ListProviderBookings(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, bookings)
}

// CheckAvailabilityHandler handles GET /bookings/check-availability/:id?date=YYYY-MM-DD.
func (h *BookingHandler) CheckAvailabilityHandler(c *gin.Context) {
	var query availabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		_ = c.Error(err)
		return
	}
	date, err := models.ParseCalendarDate(query.Date)
	if err != nil {
		_ = c.Error(utils.InvalidField("date", err.Error()))
		return
	}

	slots, err := h.BookingService.CheckAvailability(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if query.Time != "" {
		for _, s := range slots {
			if s.Time == query.Time {
				slots = []models.SlotAvailability{s}
				break
			}
		}
	}
	utils.OK(c, slots)
}

// CreateBookingHandler handles POST /bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var input models.BookingInput
	if !bindJSON(c, &input) {
		return
	}
	b, err := h.BookingService.CreateBooking(c.Request.Context(), actor(c), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	getLogger(c).Info("Booking created",
		zap.String("bookingId", b.ID),
		zap.String("serviceProvider", b.ServiceProvider),
		zap.String("time", b.Time))
	utils.Message(c, http.StatusCreated, "Booking created successfully", b)
}

// bindMutation binds the body of a mutation on an existing booking. A body error is
// reported only after the booking was found and the actor may touch it.
func (h *BookingHandler) bindMutation(c *gin.Context, obj any) bool {
	bindErr := c.ShouldBindJSON(obj)
	if bindErr == nil {
		return true
	}
	if _, err := h.BookingService.GetBooking(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return false
	}
	_ = c.Error(bindErr)
	return false
}

// UpdateBookingHandler handles PUT /bookings/:id.
func (h *BookingHandler) UpdateBookingHandler(c *gin.Context) {
	var input models.BookingInput
	if !h.bindMutation(c, &input) {
		return
	}
	b, err := h.BookingService.ReplaceBooking(c.Request.Context(), actor(c), c.Param("id"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Booking updated successfully", b)
}

// UpdateBookingStatusHandler handles PATCH /bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatusHandler(c *gin.Context) {
	var req models.BookingStatusUpdate
	if !h.bindMutation(c, &req) {
		return
	}
	result, err := h.BookingService.UpdateStatus(c.Request.Context(), actor(c), c.Param("id"), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	getLogger(c).Info("Booking status changed", zap.String("bookingId", result.ID), zap.String("status", string(result.Status)))
	utils.Message(c, http.StatusOK, "Booking status updated successfully", result)
}

// DeleteBookingHandler handles DELETE /bookings/:id.
func (h *BookingHandler) DeleteBookingHandler(c *gin.Context) {
	if err := h.BookingService.DeleteBooking(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Booking deleted successfully", nil)
}

// BookingReceiptHandler handles GET /bookings/:id/receipt.
func (h *BookingHandler) BookingReceiptHandler(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.BookingService.Receipt(c.Request.Context(), actor(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=booking-"+id+".pdf")
	c.Data(http.StatusOK, "application/pdf", doc)
}
