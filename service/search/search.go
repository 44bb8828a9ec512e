package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"

	inventoryEntity "inventory.GO/model/entity/inventory"
)

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// GetSearchService returns singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

// SearchService indexes stock records into Elasticsearch for name search.
// Optional: when ELASTICSEARCH_HOST is unset or unreachable the client is
// nil and every call reports not-configured.
type SearchService struct {
	client *elasticsearch.Client
	prefix string
}

func NewSearchService() *SearchService {
	host := os.Getenv("ELASTICSEARCH_HOST")
	prefix := os.Getenv("ELASTICSEARCH_INDEX_PREFIX")
	if prefix == "" {
		prefix = "inventory"
	}
	if host == "" {
		return &SearchService{prefix: prefix}
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &SearchService{prefix: prefix}
	}

	return &SearchService{
		client: client,
		prefix: prefix,
	}
}

// Enabled reports whether Elasticsearch is configured.
func (s *SearchService) Enabled() bool {
	return s.client != nil
}

func (s *SearchService) index() string {
	return s.prefix + "_stock_records"
}

// IndexRecord upserts a record document. Called after create; best-effort.
func (s *SearchService) IndexRecord(ctx context.Context, rec *inventoryEntity.StockRecord) error {
	if s.client == nil {
		return fmt.Errorf("elasticsearch not configured")
	}
	doc := map[string]interface{}{
		"record_id":        rec.RecordID,
		"owner_id":         rec.OwnerID,
		"name":             rec.Name,
		"quantity_on_hand": rec.QuantityOnHand,
		"threshold":        rec.Threshold,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := s.client.Index(
		s.index(),
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(strconv.FormatUint(uint64(rec.RecordID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.String())
	}
	return nil
}

// SearchByName runs a match query on record names and returns matching ids.
func (s *SearchService) SearchByName(ctx context.Context, query string, size int) ([]uint, error) {
	if s.client == nil {
		return nil, fmt.Errorf("elasticsearch not configured")
	}
	if size <= 0 {
		size = 20
	}

	q := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"name": query,
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index()),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source struct {
					RecordID uint `json:"record_id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.Source.RecordID)
	}
	return ids, nil
}
