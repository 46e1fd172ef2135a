package api

import (
	"net/http"

	reqdto "restaurant-engine/internal/handler/dto/request"
	resdto "restaurant-engine/internal/handler/dto/response"
	"restaurant-engine/internal/handler/httperr"
	"restaurant-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	cmds commands.OrderCommands
}

func NewPricingHandler(cmds commands.OrderCommands) *PricingHandler {
	return &PricingHandler{cmds: cmds}
}

// @Summary Compute totals
// @Description Price explicit lines with the configured tax and discount rules
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body reqdto.ComputeTotalsRequest true "Lines"
// @Success 200 {object} resdto.TotalsResponse
// @Failure 422 {object} httperr.Response
// @Router /pricing/totals [post]
func (h *PricingHandler) Compute(c *gin.Context) {
	var req reqdto.ComputeTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	lines, err := req.ToLines()
	if err != nil {
		httperr.Abort(c, err, "Compute totals failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromTotals(h.cmds.ComputeTotals(lines)))
}

// @Summary Quote items
// @Description Price catalog items without holding stock
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body reqdto.QuoteRequest true "Items"
// @Success 200 {object} resdto.TotalsResponse
// @Failure 422 {object} httperr.Response
// @Router /pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	totals, err := h.cmds.Quote(c.Request.Context(), reqdto.ToItems(req.Items))
	if err != nil {
		httperr.Abort(c, err, "Quote failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromTotals(totals))
}
