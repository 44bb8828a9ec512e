package inventory

import (
	"errors"
	"time"
)

// Domain errors for stock operations. The API layer maps these to HTTP
// statuses with errors.Is — do not wrap in a way that hides them.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidState      = errors.New("cannot release more than reserved")
)

// StockRecord tracks on-hand and reserved quantities for a stock-keeping
// unit, with a low-stock alert threshold. The version column backs the
// optimistic concurrency check in the repository: every persisted mutation
// bumps it by one, and a save against a stale version is rejected.
//
// All mutations go through Adjust/Reserve/Release — nothing else writes the
// counters. An operation either fully succeeds or leaves the record
// untouched.
type StockRecord struct {
	RecordID         uint      `gorm:"column:record_id;primaryKey;autoIncrement" json:"record_id"`
	OwnerID          uint64    `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Name             string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	PriceAmount      int64     `gorm:"column:price_amount;not null;default:0" json:"price_amount"`
	PriceCurrency    string    `gorm:"column:price_currency;type:varchar(3);not null;default:'USD'" json:"price_currency"`
	QuantityOnHand   int       `gorm:"column:quantity_on_hand;not null;default:0" json:"quantity_on_hand"`
	ReservedQuantity int       `gorm:"column:reserved_quantity;not null;default:0" json:"reserved_quantity"`
	Threshold        int       `gorm:"column:threshold;not null;default:0" json:"threshold"`
	Version          uint64    `gorm:"column:version;not null;default:0" json:"version"`
	Created          time.Time `gorm:"column:created;autoCreateTime" json:"created"`
	Modified         time.Time `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

func (StockRecord) TableName() string {
	return "stock_record"
}

// NewStockRecord builds a record for a new SKU. The owner supplies the
// display name, unit price in minor units, initial on-hand quantity and the
// low-stock threshold. Reserved starts at zero and version at zero.
//
// No low-stock event is derived at creation, even when the initial quantity
// is already at or below the threshold — threshold checks apply to mutating
// operations only.
func NewStockRecord(ownerID uint64, name string, priceAmount int64, currency string, quantityOnHand, threshold int) (*StockRecord, error) {
	if quantityOnHand < 0 {
		return nil, errors.Join(ErrInvalidArgument, errors.New("initial quantity cannot be negative"))
	}
	if threshold < 0 {
		return nil, errors.Join(ErrInvalidArgument, errors.New("threshold cannot be negative"))
	}
	if priceAmount < 0 {
		return nil, errors.Join(ErrInvalidArgument, errors.New("unit price cannot be negative"))
	}
	if name == "" {
		return nil, errors.Join(ErrInvalidArgument, errors.New("name is required"))
	}
	if currency == "" {
		currency = "USD"
	}
	return &StockRecord{
		OwnerID:          ownerID,
		Name:             name,
		PriceAmount:      priceAmount,
		PriceCurrency:    currency,
		QuantityOnHand:   quantityOnHand,
		ReservedQuantity: 0,
		Threshold:        threshold,
		Version:          0,
	}, nil
}

// Available returns on-hand minus reserved, the amount still reservable.
func (r *StockRecord) Available() int {
	return r.QuantityOnHand - r.ReservedQuantity
}

// Adjust applies a signed delta to the on-hand quantity (receiving stock,
// shrinkage, correction). Fails with ErrInsufficientStock when the result
// would be negative. Returns a StockLowEvent when the new on-hand quantity
// is at or below the threshold.
//
// Adjust never touches ReservedQuantity: a large negative delta applied
// while reservations are outstanding can leave reserved > on-hand.
// Reservations are settled independently via Release.
func (r *StockRecord) Adjust(delta int) (*StockLowEvent, error) {
	newQuantity := r.QuantityOnHand + delta
	if newQuantity < 0 {
		return nil, ErrInsufficientStock
	}
	r.QuantityOnHand = newQuantity

	if newQuantity <= r.Threshold {
		return &StockLowEvent{RecordID: r.RecordID, Name: r.Name, QuantityOnHand: newQuantity}, nil
	}
	return nil, nil
}

// Reserve earmarks stock for a pending order without reducing the on-hand
// count. Fails with ErrInsufficientStock when the requested quantity
// exceeds what is currently available.
//
// The low-stock check compares the new available level to the threshold;
// the event itself reports raw on-hand.
func (r *StockRecord) Reserve(quantity int) (*StockLowEvent, error) {
	if quantity <= 0 {
		return nil, errors.Join(ErrInvalidArgument, errors.New("reserve quantity must be positive"))
	}
	if r.Available() < quantity {
		return nil, ErrInsufficientStock
	}
	r.ReservedQuantity += quantity

	if r.QuantityOnHand-r.ReservedQuantity <= r.Threshold {
		return &StockLowEvent{RecordID: r.RecordID, Name: r.Name, QuantityOnHand: r.QuantityOnHand}, nil
	}
	return nil, nil
}

// Release cancels a reservation (order cancelled, expired hold). Fails with
// ErrInvalidState when the requested quantity exceeds what is reserved.
// Release never emits an event.
func (r *StockRecord) Release(quantity int) error {
	if quantity <= 0 {
		return errors.Join(ErrInvalidArgument, errors.New("release quantity must be positive"))
	}
	if r.ReservedQuantity < quantity {
		return ErrInvalidState
	}
	r.ReservedQuantity -= quantity
	return nil
}
