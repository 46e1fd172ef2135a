package response

import (
	"time"

	"restaurant-engine/internal/domain/stock"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	ProductID    uuid.UUID `json:"productId"`
	Requested    int       `json:"requested"`
	Available    int       `json:"available"`
	Sufficient   bool      `json:"sufficient"`
	BelowReorder bool      `json:"belowReorder"`
}

type ReservationItemResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type ReservationResponse struct {
	ID        uuid.UUID                 `json:"id"`
	Status    string                    `json:"status"`
	Items     []ReservationItemResponse `json:"items"`
	CreatedAt time.Time                 `json:"createdAt"`
	ExpiresAt time.Time                 `json:"expiresAt"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

func FromAvailabilities(avs []stock.Availability) []AvailabilityResponse {
	out := make([]AvailabilityResponse, len(avs))
	for i, a := range avs {
		out[i] = AvailabilityResponse(a)
	}
	return out
}

func FromReservation(r *stock.Reservation) *ReservationResponse {
	items := make([]ReservationItemResponse, 0, len(r.Items()))
	for _, it := range r.Items() {
		items = append(items, ReservationItemResponse(it))
	}
	return &ReservationResponse{
		ID:        r.ID(),
		Status:    r.Status().String(),
		Items:     items,
		CreatedAt: r.CreatedAt(),
		ExpiresAt: r.ExpiresAt(),
		UpdatedAt: r.UpdatedAt(),
	}
}
