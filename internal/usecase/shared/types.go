package shared

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventOrderCreated      EventType = "order.created"
	EventOrderModified     EventType = "order.modified"
	EventOrderStateChanged EventType = "order.state_changed"
	EventOrderSplit        EventType = "order.split"
	EventOrderConsolidated EventType = "order.consolidated"
	EventTableStateChanged EventType = "table.state_changed"
	EventRotationAlert     EventType = "table.rotation_alert"
)

// Event is what the notification sink receives on every state change.
type Event struct {
	Type       EventType         `json:"type"`
	OrderID    *uuid.UUID        `json:"order_id,omitempty"`
	Number     string            `json:"number,omitempty"`
	TableID    *uuid.UUID        `json:"table_id,omitempty"`
	Previous   string            `json:"previous,omitempty"`
	Status     string            `json:"status"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Lock keys. Per-product keys must be acquired in sorted order.
func StockLockKey(productID uuid.UUID) string { return "stock:" + productID.String() }
func TableLockKey(tableID uuid.UUID) string   { return "table:" + tableID.String() }
func OrderLockKey(orderID uuid.UUID) string   { return "order:" + orderID.String() }

const TableAssignLockKey = "tables:assign"
