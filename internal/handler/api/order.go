package api

import (
	"net/http"
	"strconv"

	"restaurant-engine/internal/domain/order"
	reqdto "restaurant-engine/internal/handler/dto/request"
	resdto "restaurant-engine/internal/handler/dto/response"
	"restaurant-engine/internal/handler/httperr"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/commands"
	"restaurant-engine/internal/usecase/queries"
	"restaurant-engine/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	cmds commands.OrderCommands
	q    queries.OrderQueries
}

func NewOrderHandler(cmds commands.OrderCommands, q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, q: q}
}

// @Summary Create order
// @Description Validate items, hold stock, seat the party and persist a pending order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body reqdto.CreateOrderRequest true "Create order request"
// @Success 201 {object} resdto.CreateOrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req reqdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.CreateOrder(c.Request.Context(), req.ToInput())
	if err != nil {
		httperr.Abort(c, err, "Create order failed")
		return
	}
	resp := resdto.CreateOrderResponse{Order: resdto.FromOrderView(queries.NewOrderView(result.Order))}
	if result.Table != nil {
		resp.Table = resdto.FromTableView(queries.NewTableView(result.Table, result.Order.CreatedAt()))
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List orders
// @Description List orders, optionally filtered by status, table or activity
// @Tags orders
// @Produce json
// @Param status query string false "Order status"
// @Param table_id query string false "Table ID"
// @Param active query bool false "Only non-terminal orders"
// @Param limit query int false "Max results"
// @Success 200 {array} resdto.OrderResponse
// @Failure 422 {object} httperr.Response
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	filter := shared.OrderFilter{Active: c.Query("active") == "true"}
	if s := c.Query("status"); s != "" {
		status := order.Status(s)
		filter.Status = &status
	}
	if t := c.Query("table_id"); t != "" {
		id, err := uuid.Parse(t)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid table_id", nil)
			return
		}
		filter.TableID = &id
	}
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid limit", nil)
			return
		}
		filter.Limit = n
	}
	views, err := h.q.List(c.Request.Context(), filter)
	if err != nil {
		httperr.Abort(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderViews(views))
}

// @Summary Modify order items
// @Description Replace all lines of a pending order inside the modification window
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body reqdto.ModifyItemsRequest true "New items"
// @Success 200 {object} resdto.OrderResponse
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders/{id}/items [put]
func (h *OrderHandler) ModifyItems(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req reqdto.ModifyItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	o, err := h.cmds.ModifyItems(c.Request.Context(), id, reqdto.ToItems(req.Items))
	if err != nil {
		httperr.Abort(c, err, "Modify items failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(queries.NewOrderView(o)))
}

// @Summary Change order state
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body reqdto.ChangeOrderStateRequest true "Target state"
// @Success 200 {object} resdto.OrderResponse
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/state [post]
func (h *OrderHandler) ChangeState(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req reqdto.ChangeOrderStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	o, err := h.cmds.ChangeState(c.Request.Context(), id, order.Status(req.Status), req.ExpectedVersion)
	if err != nil {
		httperr.Abort(c, err, "Change state failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(queries.NewOrderView(o)))
}

// @Summary Cancel order
// @Description Cancel an order; pending orders are refunded in full
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body reqdto.CancelOrderRequest false "Reason"
// @Success 200 {object} resdto.CancelOrderResponse
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req reqdto.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}
	result, err := h.cmds.CancelOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		httperr.Abort(c, err, "Cancel failed")
		return
	}
	c.JSON(http.StatusOK, resdto.CancelOrderResponse{
		Order:  resdto.FromOrderView(queries.NewOrderView(result.Order)),
		Refund: result.Refund.String(),
	})
}

// @Summary Split order
// @Description Split a delivered order into per-diner bills
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body reqdto.SplitOrderRequest true "Line partition"
// @Success 201 {object} resdto.SplitOrderResponse
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders/{id}/split [post]
func (h *OrderHandler) Split(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req reqdto.SplitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.SplitOrder(c.Request.Context(), id, req.ToParts())
	if err != nil {
		httperr.Abort(c, err, "Split failed")
		return
	}
	parts := make([]*resdto.OrderResponse, len(result.Parts))
	for i, p := range result.Parts {
		parts[i] = resdto.FromOrderView(queries.NewOrderView(p))
	}
	c.JSON(http.StatusCreated, resdto.SplitOrderResponse{
		Source: resdto.FromOrderView(queries.NewOrderView(result.Source)),
		Parts:  parts,
	})
}

// @Summary Consolidate orders
// @Description Merge delivered orders into one bill
// @Tags orders
// @Accept json
// @Produce json
// @Param request body reqdto.ConsolidateOrdersRequest true "Orders to merge"
// @Success 201 {object} resdto.ConsolidateOrdersResponse
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders/consolidate [post]
func (h *OrderHandler) Consolidate(c *gin.Context) {
	var req reqdto.ConsolidateOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.ConsolidateOrders(c.Request.Context(), req.OrderIDs, req.TableID)
	if err != nil {
		httperr.Abort(c, err, "Consolidate failed")
		return
	}
	sources := make([]*resdto.OrderResponse, len(result.Sources))
	for i, s := range result.Sources {
		sources[i] = resdto.FromOrderView(queries.NewOrderView(s))
	}
	c.JSON(http.StatusCreated, resdto.ConsolidateOrdersResponse{
		Order:   resdto.FromOrderView(queries.NewOrderView(result.Order)),
		Sources: sources,
	})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Wrap(err, "parse id"), "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
