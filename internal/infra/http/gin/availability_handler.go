package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomgrid/internal/app/dto"
	"roomgrid/internal/app/scheduling"
	"roomgrid/internal/domain/calendar"
	"roomgrid/internal/domain/timeslot"
)

type AvailabilityHandler struct {
	Service *scheduling.Service
}

func (h AvailabilityHandler) RoomStatus(c *gin.Context) {
	date, instant, ok := dateInstantQuery(c)
	if !ok {
		return
	}
	status, err := h.Service.RoomStatusAt(c.Request.Context(), c.Param("id"), date, instant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status projection failed"})
		return
	}
	c.JSON(http.StatusOK, dto.MapRoomStatus(status))
}

func (h AvailabilityHandler) FreeRooms(c *gin.Context) {
	date, instant, ok := dateInstantQuery(c)
	if !ok {
		return
	}
	rooms, err := h.Service.FreeRoomsAt(c.Request.Context(), date, instant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "free room lookup failed"})
		return
	}
	c.JSON(http.StatusOK, dto.MapFreeRooms(date, instant, rooms))
}

func (h AvailabilityHandler) DayOverview(c *gin.Context) {
	date := c.Query("date")
	if _, err := calendar.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	roomID := c.Param("id")
	busy, err := h.Service.DayOverview(c.Request.Context(), roomID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "overview failed"})
		return
	}
	c.JSON(http.StatusOK, dto.MapDayOverview(roomID, date, busy))
}

func dateInstantQuery(c *gin.Context) (string, string, bool) {
	date := c.Query("date")
	if _, err := calendar.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return "", "", false
	}
	instant := c.Query("at")
	if !timeslot.Valid(instant) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at must be HH:MM"})
		return "", "", false
	}
	return date, instant, true
}

var _ AvailabilityHTTP = AvailabilityHandler{}
