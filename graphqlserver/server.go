package graphqlserver

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"inventory.GO/graphql"
	gqlmodels "inventory.GO/graphql/models"
	gqlregistry "inventory.GO/graphql/registry"
	inventoryRepo "inventory.GO/model/repository/inventory"
	searchService "inventory.GO/service/search"
)

// RootResolver is the root for graphql-go.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{repo: inventoryRepo.NewStockRepository(r.DB)}
}

// QueryResolver implements Query fields.
type QueryResolver struct {
	repo *inventoryRepo.StockRepository
}

type StockRecordArgs struct {
	ID gql.ID
}

func (r *QueryResolver) StockRecord(ctx context.Context, args StockRecordArgs) (*gqlmodels.StockRecord, error) {
	id, err := strconv.ParseUint(string(args.ID), 10, 32)
	if err != nil {
		return nil, errors.New("invalid id")
	}
	rec, err := r.repo.LoadCached(uint(id))
	if errors.Is(err, inventoryRepo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return gqlmodels.FromEntity(rec), nil
}

func (r *QueryResolver) LowStock(ctx context.Context) ([]*gqlmodels.StockRecord, error) {
	recs, err := r.repo.LowStock()
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.StockRecord, 0, len(recs))
	for i := range recs {
		out = append(out, gqlmodels.FromEntity(&recs[i]))
	}
	return out, nil
}

type SearchStockArgs struct {
	Query string
	Size  *int32
}

func (r *QueryResolver) SearchStock(ctx context.Context, args SearchStockArgs) ([]*gqlmodels.StockRecord, error) {
	es := searchService.GetSearchService()
	size := 20
	if args.Size != nil && *args.Size > 0 {
		size = int(*args.Size)
	}
	ids, err := es.SearchByName(ctx, args.Query, size)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.StockRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := r.repo.LoadCached(id)
		if errors.Is(err, inventoryRepo.ErrNotFound) {
			continue // index lags deletes
		}
		if err != nil {
			return nil, err
		}
		out = append(out, gqlmodels.FromEntity(rec))
	}
	return out, nil
}

type ExtensionArgs struct {
	Name string
	Args *string
}

// Extension dispatches to a resolver registered in graphql/registry. Args
// and result travel as JSON strings to keep the schema static.
func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (string, error) {
	fn, ok := gqlregistry.Get(args.Name)
	if !ok {
		return "", errors.New("unknown extension: " + args.Name)
	}
	in := map[string]interface{}{}
	if args.Args != nil && *args.Args != "" {
		if err := json.Unmarshal([]byte(*args.Args), &in); err != nil {
			return "", err
		}
	}
	res, err := fn(ctx, in)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// NewSchema parses the schema against the root resolver.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
