package models

import (
	"strconv"

	gql "github.com/graph-gophers/graphql-go"

	inventoryEntity "inventory.GO/model/entity/inventory"
)

// StockRecord is the GraphQL view of a stock record. graphql-go maps Int to
// int32; 64-bit fields (owner, price, version) are exposed as strings.
type StockRecord struct {
	RecordID         gql.ID
	OwnerID          string
	Name             string
	PriceAmount      string
	PriceCurrency    string
	QuantityOnHand   int32
	ReservedQuantity int32
	Available        int32
	Threshold        int32
	Version          string
}

// FromEntity converts a persistence entity into the GraphQL model.
func FromEntity(rec *inventoryEntity.StockRecord) *StockRecord {
	if rec == nil {
		return nil
	}
	return &StockRecord{
		RecordID:         gql.ID(strconv.FormatUint(uint64(rec.RecordID), 10)),
		OwnerID:          strconv.FormatUint(rec.OwnerID, 10),
		Name:             rec.Name,
		PriceAmount:      strconv.FormatInt(rec.PriceAmount, 10),
		PriceCurrency:    rec.PriceCurrency,
		QuantityOnHand:   int32(rec.QuantityOnHand),
		ReservedQuantity: int32(rec.ReservedQuantity),
		Available:        int32(rec.Available()),
		Threshold:        int32(rec.Threshold),
		Version:          strconv.FormatUint(rec.Version, 10),
	}
}
