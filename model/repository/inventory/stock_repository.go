package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"inventory.GO/core/cache"
	inventoryEntity "inventory.GO/model/entity/inventory"
)

var (
	// ErrNotFound means no record exists for the id.
	ErrNotFound = errors.New("stock record not found")
	// ErrVersionConflict means the conditioned update matched no row: the
	// record moved on since it was loaded. Callers reload and retry.
	ErrVersionConflict = errors.New("stock record version conflict")
)

const recordCacheTTL = 30 // seconds

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// Load fetches a record by id, bypassing the cache. This is the read used
// by mutating operations — they must see the latest committed version.
func (r *StockRepository) Load(id uint) (*inventoryEntity.StockRecord, error) {
	var rec inventoryEntity.StockRecord
	err := r.db.Where("record_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load stock record %d: %w", id, err)
	}
	return &rec, nil
}

// LoadCached fetches a record through the in-process cache. For read-only
// endpoints; the cache entry is tagged per record and dropped on every
// successful mutation.
func (r *StockRepository) LoadCached(id uint) (*inventoryEntity.StockRecord, error) {
	c := cache.GetInstance()
	if v, ok := c.GetN("stock_record", id); ok {
		if rec, isRec := v.(*inventoryEntity.StockRecord); isRec {
			return rec, nil
		}
	}
	rec, err := r.Load(id)
	if err != nil {
		return nil, err
	}
	c.SetN([]interface{}{"stock_record", id}, rec, recordCacheTTL, []string{recordTag(id)})
	return rec, nil
}

// Create inserts a new record. gorm fills RecordID and audit timestamps.
func (r *StockRepository) Create(rec *inventoryEntity.StockRecord) error {
	if err := r.db.Create(rec).Error; err != nil {
		return fmt.Errorf("create stock record: %w", err)
	}
	return nil
}

// UpdateWithVersion persists a mutated record conditioned on the version it
// was loaded at. One UPDATE, atomic at the database: when another writer
// committed first the WHERE clause matches nothing and ErrVersionConflict
// is returned.
func (r *StockRepository) UpdateWithVersion(tx *gorm.DB, rec *inventoryEntity.StockRecord, expectedVersion uint64) error {
	if tx == nil {
		tx = r.db
	}
	res := tx.Exec(`
		UPDATE stock_record
		SET quantity_on_hand = ?, reserved_quantity = ?, version = version + 1, modified = CURRENT_TIMESTAMP
		WHERE record_id = ? AND version = ?`,
		rec.QuantityOnHand, rec.ReservedQuantity, rec.RecordID, expectedVersion,
	)
	if res.Error != nil {
		return fmt.Errorf("update stock record %d: %w", rec.RecordID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	rec.Version = expectedVersion + 1
	cache.GetInstance().DeleteByTag(recordTag(rec.RecordID))
	return nil
}

// AppendEvent writes an outbox row. Called inside the same transaction as
// UpdateWithVersion so the event exists iff the mutation committed.
func (r *StockRepository) AppendEvent(tx *gorm.DB, ev *inventoryEntity.StockEvent) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(ev).Error; err != nil {
		return fmt.Errorf("append stock event: %w", err)
	}
	return nil
}

// LowStock returns records whose available quantity is at or below their
// threshold. Raw SQL keeps the derived column in one place.
func (r *StockRepository) LowStock() ([]inventoryEntity.StockRecord, error) {
	var recs []inventoryEntity.StockRecord
	err := r.db.Raw(`
		SELECT * FROM stock_record
		WHERE quantity_on_hand - reserved_quantity <= threshold
		ORDER BY record_id`).Scan(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("low stock query: %w", err)
	}
	return recs, nil
}

// ListByOwner returns all records for an owner.
func (r *StockRepository) ListByOwner(ownerID uint64) ([]inventoryEntity.StockRecord, error) {
	var recs []inventoryEntity.StockRecord
	err := r.db.Where("owner_id = ?", ownerID).Order("record_id").Find(&recs).Error
	return recs, err
}

// UnpublishedEvents returns outbox rows not yet delivered, oldest first.
func (r *StockRepository) UnpublishedEvents(limit int) ([]inventoryEntity.StockEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []inventoryEntity.StockEvent
	err := r.db.Where("published = 0").Order("event_id").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("unpublished events: %w", err)
	}
	return events, nil
}

// MarkPublished flips the published flag on delivered outbox rows.
func (r *StockRepository) MarkPublished(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Model(&inventoryEntity.StockEvent{}).
		Where("event_id IN ?", ids).
		Update("published", 1).Error
	if err != nil {
		return fmt.Errorf("mark events published: %w", err)
	}
	return nil
}

// RecentEvents returns the newest outbox rows for a record.
func (r *StockRepository) RecentEvents(recordID uint, limit int) ([]inventoryEntity.StockEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	var events []inventoryEntity.StockEvent
	err := r.db.Where("record_id = ?", recordID).Order("event_id DESC").Limit(limit).Find(&events).Error
	return events, err
}

func recordTag(id uint) string {
	return fmt.Sprintf("stock_record:%d", id)
}
