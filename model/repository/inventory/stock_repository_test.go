package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"inventory.GO/core/cache"
	inventoryEntity "inventory.GO/model/entity/inventory"
)

func repoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cache.GetInstance().Flush() // record ids restart per test DB; drop stale entries
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("stock_repo_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(
		&inventoryEntity.StockRecord{},
		&inventoryEntity.StockEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedRecord(t *testing.T, repo *StockRepository, onHand, threshold int) *inventoryEntity.StockRecord {
	t.Helper()
	rec, err := inventoryEntity.NewStockRecord(1, "Filter Cartridge", 500, "USD", onHand, threshold)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	return rec
}

func TestLoad_NotFound(t *testing.T) {
	repo := NewStockRepository(repoTestDB(t))
	_, err := repo.Load(9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateAndLoad(t *testing.T) {
	repo := NewStockRepository(repoTestDB(t))
	rec := seedRecord(t, repo, 10, 3)
	if rec.RecordID == 0 {
		t.Fatal("create did not assign an id")
	}

	got, err := repo.Load(rec.RecordID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.QuantityOnHand != 10 || got.Threshold != 3 || got.Version != 0 {
		t.Errorf("loaded = on_hand %d threshold %d version %d", got.QuantityOnHand, got.Threshold, got.Version)
	}
}

func TestUpdateWithVersion_BumpsVersion(t *testing.T) {
	repo := NewStockRepository(repoTestDB(t))
	rec := seedRecord(t, repo, 10, 3)

	rec.QuantityOnHand = 8
	if err := repo.UpdateWithVersion(nil, rec, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Version != 1 {
		t.Errorf("in-memory version = %d, want 1", rec.Version)
	}

	got, err := repo.Load(rec.RecordID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != 1 || got.QuantityOnHand != 8 {
		t.Errorf("stored = version %d on_hand %d, want 1/8", got.Version, got.QuantityOnHand)
	}
}

func TestUpdateWithVersion_StaleVersion_Conflict(t *testing.T) {
	repo := NewStockRepository(repoTestDB(t))
	rec := seedRecord(t, repo, 10, 3)

	// Two loads of the same state
	first, _ := repo.Load(rec.RecordID)
	second, _ := repo.Load(rec.RecordID)

	first.QuantityOnHand = 6
	if err := repo.UpdateWithVersion(nil, first, first.Version); err != nil {
		t.Fatalf("first update: %v", err)
	}

	second.QuantityOnHand = 4
	err := repo.UpdateWithVersion(nil, second, second.Version)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("second update err = %v, want ErrVersionConflict", err)
	}

	// Loser left no trace
	got, _ := repo.Load(rec.RecordID)
	if got.QuantityOnHand != 6 || got.Version != 1 {
		t.Errorf("stored = on_hand %d version %d, want 6/1", got.QuantityOnHand, got.Version)
	}
}

func TestLoadCached_InvalidatedByUpdate(t *testing.T) {
	repo := NewStockRepository(repoTestDB(t))
	rec := seedRecord(t, repo, 10, 3)

	c1, err := repo.LoadCached(rec.RecordID)
	if err != nil {
		t.Fatalf("first cached load: %v", err)
	}
	if c1.QuantityOnHand != 10 {
		t.Errorf("cached on_hand = %d, want 10", c1.QuantityOnHand)
	}

	fresh, _ := repo.Load(rec.RecordID)
	fresh.QuantityOnHand = 2
	if err := repo.UpdateWithVersion(nil, fresh, fresh.Version); err != nil {
		t.Fatalf("update: %v", err)
	}

	c2, err := repo.LoadCached(rec.RecordID)
	if err != nil {
		t.Fatalf("second cached load: %v", err)
	}
	if c2.QuantityOnHand != 2 {
		t.Errorf("cached on_hand after update = %d, want 2 (entry invalidated)", c2.QuantityOnHand)
	}
}

func TestLowStock(t *testing.T) {
	repo := NewStockRepository(repoTestDB(t))
	low := seedRecord(t, repo, 3, 5)       // available 3 <= 5
	seedRecord(t, repo, 50, 5)             // fine
	reserved := seedRecord(t, repo, 20, 5) // available will drop to 4

	reserved.ReservedQuantity = 16
	if err := repo.UpdateWithVersion(nil, reserved, 0); err != nil {
		t.Fatalf("update: %v", err)
	}

	recs, err := repo.LowStock()
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("low stock count = %d, want 2", len(recs))
	}
	if recs[0].RecordID != low.RecordID || recs[1].RecordID != reserved.RecordID {
		t.Errorf("low stock ids = %d,%d want %d,%d", recs[0].RecordID, recs[1].RecordID, low.RecordID, reserved.RecordID)
	}
}

func TestOutbox_AppendListMark(t *testing.T) {
	repo := NewStockRepository(repoTestDB(t))
	rec := seedRecord(t, repo, 2, 5)

	row, err := inventoryEntity.NewStockEvent(inventoryEntity.StockLowEvent{
		RecordID: rec.RecordID, Name: rec.Name, QuantityOnHand: 2,
	})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if err := repo.AppendEvent(nil, row); err != nil {
		t.Fatalf("append: %v", err)
	}

	pending, err := repo.UnpublishedEvents(10)
	if err != nil {
		t.Fatalf("unpublished: %v", err)
	}
	if len(pending) != 1 || pending[0].EventID != row.EventID {
		t.Fatalf("pending = %+v, want the appended row", pending)
	}

	if err := repo.MarkPublished([]uint{row.EventID}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	pending, _ = repo.UnpublishedEvents(10)
	if len(pending) != 0 {
		t.Errorf("pending after mark = %d, want 0", len(pending))
	}

	recent, err := repo.RecentEvents(rec.RecordID, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("recent = %d, want 1 (published rows still listed)", len(recent))
	}
}
