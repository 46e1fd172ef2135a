package api

import (
	"net/http"

	reqdto "restaurant-engine/internal/handler/dto/request"
	resdto "restaurant-engine/internal/handler/dto/response"
	"restaurant-engine/internal/handler/httperr"
	"restaurant-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	ledger commands.StockLedger
}

func NewStockHandler(ledger commands.StockLedger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// @Summary Check availability
// @Description Evaluate items against on-hand stock minus live holds, without side effects
// @Tags stock
// @Accept json
// @Produce json
// @Param request body reqdto.StockItemsRequest true "Items"
// @Success 200 {array} resdto.AvailabilityResponse
// @Router /stock/availability [post]
func (h *StockHandler) Availability(c *gin.Context) {
	var req reqdto.StockItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	avs, err := h.ledger.CheckItems(c.Request.Context(), req.ToItems())
	if err != nil {
		httperr.Abort(c, err, "Availability check failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilities(avs))
}

// @Summary Hold stock
// @Description Reserve every item or none
// @Tags stock
// @Accept json
// @Produce json
// @Param request body reqdto.StockItemsRequest true "Items"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 409 {object} httperr.Response
// @Router /stock/holds [post]
func (h *StockHandler) Hold(c *gin.Context) {
	var req reqdto.StockItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	r, err := h.ledger.Hold(c.Request.Context(), req.ToItems())
	if err != nil {
		httperr.Abort(c, err, "Hold failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReservation(r))
}

// @Summary Confirm hold
// @Description Consume held stock
// @Tags stock
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 409 {object} httperr.Response
// @Router /stock/holds/{id}/confirm [post]
func (h *StockHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := h.ledger.Confirm(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err, "Confirm failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(r))
}

// @Summary Release hold
// @Description Release a hold, restoring stock when it was already confirmed
// @Tags stock
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Router /stock/holds/{id}/release [post]
func (h *StockHandler) Release(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := h.ledger.Release(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err, "Release failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(r))
}
