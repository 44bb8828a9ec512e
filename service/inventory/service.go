package inventory

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"inventory.GO/config"
	inventoryEntity "inventory.GO/model/entity/inventory"
	inventoryRepo "inventory.GO/model/repository/inventory"
)

// ErrConflict is returned when the optimistic version check keeps failing
// after all retry attempts. The caller saw none of its attempts commit.
var ErrConflict = errors.New("stock record conflict: retries exhausted")

const defaultAttempts = 5

// Service wraps the StockRecord operations in the load → apply → persist
// cycle. Concurrency control is optimistic: each attempt re-loads the
// record, applies the operation to the fresh state, and persists with a
// version-conditioned update. A conflicting writer causes a reload and a
// full re-run of the operation, never a blind re-save of stale state.
type Service struct {
	repo     *inventoryRepo.StockRepository
	db       *gorm.DB
	sink     Sink
	attempts int
}

func NewService(db *gorm.DB, sink Sink) *Service {
	attempts := defaultAttempts
	if config.AppConfig != nil && config.AppConfig.RetryAttempts > 0 {
		attempts = config.AppConfig.RetryAttempts
	}
	return &Service{
		repo:     inventoryRepo.NewStockRepository(db),
		db:       db,
		sink:     sink,
		attempts: attempts,
	}
}

// WithAttempts overrides the retry budget (minimum 1). For tests and for
// callers that want to fail fast under contention.
func (s *Service) WithAttempts(n int) *Service {
	if n < 1 {
		n = 1
	}
	s.attempts = n
	return s
}

// CreateRecord validates and persists a new stock record. No event is
// derived on creation regardless of the initial quantity.
func (s *Service) CreateRecord(ctx context.Context, ownerID uint64, name string, priceAmount int64, currency string, quantityOnHand, threshold int) (*inventoryEntity.StockRecord, error) {
	rec, err := inventoryEntity.NewStockRecord(ownerID, name, priceAmount, currency, quantityOnHand, threshold)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns the current record state (cached read).
func (s *Service) Get(ctx context.Context, id uint) (*inventoryEntity.StockRecord, error) {
	return s.repo.LoadCached(id)
}

// LowStock lists records at or below their threshold.
func (s *Service) LowStock(ctx context.Context) ([]inventoryEntity.StockRecord, error) {
	return s.repo.LowStock()
}

// ListByOwner lists all records held by an owner.
func (s *Service) ListByOwner(ctx context.Context, ownerID uint64) ([]inventoryEntity.StockRecord, error) {
	return s.repo.ListByOwner(ownerID)
}

// Adjust applies a signed delta to on-hand quantity.
func (s *Service) Adjust(ctx context.Context, id uint, delta int) (*inventoryEntity.StockRecord, error) {
	return s.mutate(ctx, id, func(rec *inventoryEntity.StockRecord) (*inventoryEntity.StockLowEvent, error) {
		return rec.Adjust(delta)
	})
}

// Reserve earmarks stock for a pending order.
func (s *Service) Reserve(ctx context.Context, id uint, quantity int) (*inventoryEntity.StockRecord, error) {
	return s.mutate(ctx, id, func(rec *inventoryEntity.StockRecord) (*inventoryEntity.StockLowEvent, error) {
		return rec.Reserve(quantity)
	})
}

// Release cancels a reservation.
func (s *Service) Release(ctx context.Context, id uint, quantity int) (*inventoryEntity.StockRecord, error) {
	return s.mutate(ctx, id, func(rec *inventoryEntity.StockRecord) (*inventoryEntity.StockLowEvent, error) {
		return nil, rec.Release(quantity)
	})
}

// mutate runs one business operation under optimistic concurrency control.
// Business-rule rejections (invalid argument, insufficient stock, invalid
// state) abort immediately — only version conflicts are retried, because
// only they mean the decision was made against stale state.
func (s *Service) mutate(ctx context.Context, id uint, op func(*inventoryEntity.StockRecord) (*inventoryEntity.StockLowEvent, error)) (*inventoryEntity.StockRecord, error) {
	for attempt := 0; attempt < s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			backoff()
		}

		rec, err := s.repo.Load(id)
		if err != nil {
			return nil, err
		}
		loadedVersion := rec.Version

		ev, err := op(rec)
		if err != nil {
			return nil, err
		}

		var row *inventoryEntity.StockEvent
		if ev != nil {
			row, err = inventoryEntity.NewStockEvent(*ev)
			if err != nil {
				return nil, err
			}
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.repo.UpdateWithVersion(tx, rec, loadedVersion); err != nil {
				return err
			}
			if row != nil {
				return s.repo.AppendEvent(tx, row)
			}
			return nil
		})
		if errors.Is(err, inventoryRepo.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.forward(ctx, ev, row)
		return rec, nil
	}
	return nil, ErrConflict
}

// forward delivers the event to the sink after a successful persist and
// marks the outbox row off. Best-effort: on failure the row stays
// unpublished and the outbox flush job re-delivers it.
func (s *Service) forward(ctx context.Context, ev *inventoryEntity.StockLowEvent, row *inventoryEntity.StockEvent) {
	if ev == nil || s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, *ev); err != nil {
		log.Printf("stock event publish failed (outbox will retry): record=%d err=%v", ev.RecordID, err)
		return
	}
	if row != nil {
		if err := s.repo.MarkPublished([]uint{row.EventID}); err != nil {
			log.Printf("mark event published failed: event=%d err=%v", row.EventID, err)
		}
	}
}

// backoff sleeps 5–20ms. Jitter keeps two retrying writers from colliding
// on the same schedule again.
func backoff() {
	time.Sleep(time.Duration(5+rand.Intn(15)) * time.Millisecond)
}
