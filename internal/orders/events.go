package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderCanceled      = "OrderCanceled"
)

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status.changed"
	TopicOrderCanceled      = "order.canceled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type ItemLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type OrderCreatedPayload struct {
	OrderID    string     `json:"order_id"`
	UserID     string     `json:"user_id"`
	Items      []ItemLine `json:"items"`
	TotalValue string     `json:"total_value"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

type OrderCanceledPayload struct {
	OrderID  string     `json:"order_id"`
	Restored []ItemLine `json:"restored"`
}

// Publisher delivers lifecycle events after a unit of work committed.
// Delivery is fire-and-forget and never affects the operation outcome.
type Publisher interface {
	Publish(topic, eventType string, key, value []byte)
}

// Partition key = order_id so all events of one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func itemLines(items []OrderItem) []ItemLine {
	out := make([]ItemLine, 0, len(items))
	for _, it := range items {
		out = append(out, ItemLine{
			ProductID: it.ProductID.String(),
			Name:      it.ProductName,
			Qty:       it.Quantity,
			UnitPrice: it.UnitPrice.String(),
			Subtotal:  it.Subtotal.String(),
		})
	}
	return out
}
