package api

import (
	"net/http"

	"restaurant-engine/internal/domain/table"
	reqdto "restaurant-engine/internal/handler/dto/request"
	resdto "restaurant-engine/internal/handler/dto/response"
	"restaurant-engine/internal/handler/httperr"
	"restaurant-engine/internal/pkg/clock"
	"restaurant-engine/internal/usecase/commands"
	"restaurant-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	cmds  commands.TableCommands
	q     queries.TableQueries
	clock clock.Clock
}

func NewTableHandler(cmds commands.TableCommands, q queries.TableQueries, clk clock.Clock) *TableHandler {
	return &TableHandler{cmds: cmds, q: q, clock: clk}
}

// @Summary List tables
// @Tags tables
// @Produce json
// @Success 200 {array} resdto.TableResponse
// @Router /tables [get]
func (h *TableHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err, "Failed to list tables")
		return
	}
	c.JSON(http.StatusOK, resdto.FromTableViews(views))
}

// @Summary Get table
// @Tags tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} resdto.TableResponse
// @Failure 404 {object} httperr.Response
// @Router /tables/{id} [get]
func (h *TableHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err, "Failed to load table")
		return
	}
	c.JSON(http.StatusOK, resdto.FromTableView(view))
}

// @Summary Assign best table
// @Description Seat a party at the best-fitting free table, or estimate the wait
// @Tags tables
// @Accept json
// @Produce json
// @Param request body reqdto.AssignTableRequest true "Party"
// @Success 200 {object} resdto.AssignTableResponse
// @Failure 400 {object} httperr.Response
// @Router /tables/assign [post]
func (h *TableHandler) Assign(c *gin.Context) {
	var req reqdto.AssignTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.AssignBestTable(c.Request.Context(), req.PartySize, req.LocationPreference)
	if err != nil {
		httperr.Abort(c, err, "Assign table failed")
		return
	}
	resp := resdto.AssignTableResponse{
		Assigned:             result.Assigned,
		Score:                result.Score,
		EstimatedWaitMinutes: int(result.EstimatedWait.Minutes()),
	}
	if result.Table != nil {
		resp.Table = resdto.FromTableView(queries.NewTableView(result.Table, h.clock.Now()))
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Release table
// @Description Free an occupied table that has no active order
// @Tags tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} resdto.TableResponse
// @Failure 409 {object} httperr.Response
// @Router /tables/{id}/release [post]
func (h *TableHandler) Release(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.cmds.ReleaseTable(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err, "Release table failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromTableView(queries.NewTableView(t, h.clock.Now())))
}

// @Summary Change table state
// @Description Manual moves to Reserved, Maintenance or Free
// @Tags tables
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param request body reqdto.ChangeTableStateRequest true "Target state"
// @Success 200 {object} resdto.TableResponse
// @Failure 409 {object} httperr.Response
// @Router /tables/{id}/state [post]
func (h *TableHandler) ChangeState(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req reqdto.ChangeTableStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	target, err := table.ParseStatus(req.Status)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status", nil)
		return
	}
	t, err := h.cmds.ChangeTableState(c.Request.Context(), id, target)
	if err != nil {
		httperr.Abort(c, err, "Change table state failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromTableView(queries.NewTableView(t, h.clock.Now())))
}

// @Summary Rotation alerts
// @Description Tables occupied longer than the rotation threshold
// @Tags tables
// @Produce json
// @Success 200 {array} resdto.RotationAlertResponse
// @Router /tables/rotation-alerts [get]
func (h *TableHandler) RotationAlerts(c *gin.Context) {
	alerts, err := h.cmds.RotationAlerts(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err, "Failed to compute rotation alerts")
		return
	}
	c.JSON(http.StatusOK, resdto.FromRotationAlerts(alerts))
}
