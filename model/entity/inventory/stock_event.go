package inventory

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// EventTypeStockLow is the only event type the record derives today.
const EventTypeStockLow = "stock.low"

// StockLowEvent is emitted when a mutation leaves stock at or below the
// record's threshold. Immutable value — produced once, never updated.
type StockLowEvent struct {
	RecordID       uint   `json:"record_id" mapstructure:"record_id"`
	Name           string `json:"name" mapstructure:"name"`
	QuantityOnHand int    `json:"quantity_on_hand" mapstructure:"quantity_on_hand"`
}

// StockEvent is the outbox row for derived events. The payload is stored as
// JSON in the same transaction as the mutation that produced it; the outbox
// flush job publishes rows where published = 0 and marks them off, giving
// at-least-once delivery to the sink.
type StockEvent struct {
	EventID   uint           `gorm:"column:event_id;primaryKey;autoIncrement" json:"event_id"`
	RecordID  uint           `gorm:"column:record_id;not null;index" json:"record_id"`
	Type      string         `gorm:"column:type;type:varchar(32);not null" json:"type"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
	Published uint16         `gorm:"column:published;not null;default:0" json:"published"`
	Created   time.Time      `gorm:"column:created;autoCreateTime" json:"created"`
}

func (StockEvent) TableName() string {
	return "stock_event"
}

// NewStockEvent wraps a StockLowEvent into an outbox row.
func NewStockEvent(ev StockLowEvent) (*StockEvent, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &StockEvent{
		RecordID: ev.RecordID,
		Type:     EventTypeStockLow,
		Payload:  datatypes.JSON(payload),
	}, nil
}
