package jobs

import (
	"context"
	"log"
	"sync"

	"gorm.io/gorm"

	"inventory.GO/cron"
	inventoryService "inventory.GO/service/inventory"
)

func init() {
	cron.Register("lowstockscan", "@every 5m", LowStockScanJob)
	cron.Register("outboxflush", "@every 1m", OutboxFlushJob)
}

// Jobs get their dependencies injected once by the entrypoint (cmd/cron.go
// or server startup) before the scheduler starts.
var (
	mu  sync.Mutex
	svc *inventoryService.Service
)

// Init wires the jobs to a DB and event sink. Call before StartCron.
func Init(db *gorm.DB, sink inventoryService.Sink) {
	mu.Lock()
	defer mu.Unlock()
	svc = inventoryService.NewService(db, sink)
}

func service() *inventoryService.Service {
	mu.Lock()
	defer mu.Unlock()
	return svc
}

// LowStockScanJob logs every record at or below its threshold. A safety net
// behind the per-operation events: catches records that went low before the
// service started or whose events were lost downstream.
func LowStockScanJob(args ...string) {
	s := service()
	if s == nil {
		log.Println("lowstockscan: not initialized, skipping")
		return
	}
	recs, err := s.LowStock(context.Background())
	if err != nil {
		log.Printf("lowstockscan: %v", err)
		return
	}
	for _, rec := range recs {
		log.Printf("lowstockscan: record=%d name=%q on_hand=%d reserved=%d threshold=%d",
			rec.RecordID, rec.Name, rec.QuantityOnHand, rec.ReservedQuantity, rec.Threshold)
	}
	log.Printf("lowstockscan: %d record(s) at or below threshold", len(recs))
}

// OutboxFlushJob re-delivers low-stock events that never reached the sink.
func OutboxFlushJob(args ...string) {
	s := service()
	if s == nil {
		log.Println("outboxflush: not initialized, skipping")
		return
	}
	n, err := s.FlushOutbox(context.Background(), 100)
	if err != nil {
		log.Printf("outboxflush: %v", err)
		return
	}
	if n > 0 {
		log.Printf("outboxflush: delivered %d event(s)", n)
	}
}
