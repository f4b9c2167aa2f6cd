package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomgrid/internal/app/dto"
	"roomgrid/internal/app/scheduling"
	"roomgrid/internal/domain/admission"
	"roomgrid/internal/domain/reservation"
)

type ReservationHandler struct {
	Service *scheduling.Service
}

type createReservationRequest struct {
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
	PartySize int    `json:"party_size"`
	Requester string `json:"requester"`
	Reason    string `json:"reason"`
}

type updateReservationRequest struct {
	Date      *string `json:"date"`
	Start     *string `json:"start"`
	PartySize *int    `json:"party_size"`
}

type evaluateRequest struct {
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
	PartySize int    `json:"party_size"`
}

func (h ReservationHandler) Create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.Service.CreateReservation(c.Request.Context(), scheduling.CreateParams{
		RoomID:    req.RoomID,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		PartySize: req.PartySize,
		Requester: req.Requester,
		Reason:    req.Reason,
	})
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapReservation(res))
}

func (h ReservationHandler) Update(c *gin.Context) {
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.Service.UpdateReservation(c.Request.Context(), c.Param("id"), scheduling.UpdatePatch{
		Date:      req.Date,
		Start:     req.Start,
		PartySize: req.PartySize,
	})
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservation(res))
}

func (h ReservationHandler) Cancel(c *gin.Context) {
	res, err := h.Service.CancelReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservation(res))
}

func (h ReservationHandler) Truncate(c *gin.Context) {
	res, err := h.Service.TruncateReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapReservation(res))
}

// Evaluate runs the admission check without persisting; rejections come back
// as a 200 with the decision body, not an error.
func (h ReservationHandler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	decision, err := h.Service.EvaluateAdmission(c.Request.Context(), admission.Request{
		RoomID:    req.RoomID,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		PartySize: req.PartySize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "admission check failed"})
		return
	}
	c.JSON(http.StatusOK, dto.MapDecision(decision))
}

func writeSchedulingError(c *gin.Context, err error) {
	var rejection *scheduling.AdmissionRejectedError
	switch {
	case errors.As(err, &rejection):
		status := http.StatusConflict
		if rejection.Decision.Outcome == admission.OutcomeValidationError {
			status = http.StatusBadRequest
		}
		body := gin.H{"error": rejection.Error(), "decision": dto.MapDecision(rejection.Decision)}
		c.JSON(status, body)
	case errors.Is(err, reservation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
	case errors.Is(err, reservation.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "reservation is cancelled"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ ReservationHTTP = ReservationHandler{}
