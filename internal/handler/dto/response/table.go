package response

import (
	"time"

	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type TableResponse struct {
	ID              uuid.UUID  `json:"id"`
	Number          int        `json:"number"`
	Capacity        int        `json:"capacity"`
	Location        string     `json:"location,omitempty"`
	Status          string     `json:"status"`
	LastStateChange time.Time  `json:"lastStateChange"`
	OccupiedSince   *time.Time `json:"occupiedSince,omitempty"`
	OccupiedMinutes int        `json:"occupiedMinutes"`
}

type AssignTableResponse struct {
	Assigned             bool           `json:"assigned"`
	Table                *TableResponse `json:"table,omitempty"`
	Score                int            `json:"score,omitempty"`
	EstimatedWaitMinutes int            `json:"estimatedWaitMinutes"`
}

type RotationAlertResponse struct {
	TableID         uuid.UUID `json:"tableId"`
	Number          int       `json:"number"`
	OccupiedSince   time.Time `json:"occupiedSince"`
	OccupiedMinutes int       `json:"occupiedMinutes"`
}

func FromTableView(v *queries.TableView) *TableResponse {
	resp := &TableResponse{}
	if err := copier.Copy(resp, v); err != nil {
		panic(err) // unreachable: source and target types are fixed
	}
	return resp
}

func FromTableViews(vs []*queries.TableView) []*TableResponse {
	out := make([]*TableResponse, len(vs))
	for i, v := range vs {
		out[i] = FromTableView(v)
	}
	return out
}

func FromRotationAlerts(alerts []table.RotationAlert) []RotationAlertResponse {
	out := make([]RotationAlertResponse, len(alerts))
	for i, a := range alerts {
		out[i] = RotationAlertResponse{
			TableID:         a.TableID,
			Number:          a.Number,
			OccupiedSince:   a.OccupiedSince,
			OccupiedMinutes: int(a.OccupiedFor.Minutes()),
		}
	}
	return out
}
