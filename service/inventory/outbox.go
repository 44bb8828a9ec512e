package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mitchellh/mapstructure"

	inventoryEntity "inventory.GO/model/entity/inventory"
)

// FlushOutbox publishes outbox rows that never reached the sink and marks
// them off. Runs from the cron scheduler; safe to run concurrently with
// live traffic since re-delivery is allowed.
func (s *Service) FlushOutbox(ctx context.Context, limit int) (int, error) {
	if s.sink == nil {
		return 0, nil
	}
	rows, err := s.repo.UnpublishedEvents(limit)
	if err != nil {
		return 0, err
	}

	var delivered []uint
	for _, row := range rows {
		ev, err := decodeEvent(row)
		if err != nil {
			log.Printf("outbox: skip undecodable event %d: %v", row.EventID, err)
			continue
		}
		if err := s.sink.Publish(ctx, *ev); err != nil {
			// Stop at the first failure, keep ordering per record intact.
			break
		}
		delivered = append(delivered, row.EventID)
	}

	if err := s.repo.MarkPublished(delivered); err != nil {
		return len(delivered), err
	}
	return len(delivered), nil
}

// decodeEvent rebuilds a StockLowEvent from the stored JSON payload.
func decodeEvent(row inventoryEntity.StockEvent) (*inventoryEntity.StockLowEvent, error) {
	if row.Type != inventoryEntity.EventTypeStockLow {
		return nil, fmt.Errorf("unknown event type %q", row.Type)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(row.Payload, &raw); err != nil {
		return nil, err
	}
	var ev inventoryEntity.StockLowEvent
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		// JSON numbers arrive as float64
		WeaklyTypedInput: true,
		Result:           &ev,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return &ev, nil
}
