package graphqlserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	graphqlApi "inventory.GO/api/graphql"
	"inventory.GO/core/cache"
	"inventory.GO/graphqlserver"
	inventoryEntity "inventory.GO/model/entity/inventory"
	inventoryRepo "inventory.GO/model/repository/inventory"
)

func graphqlTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cache.GetInstance().Flush()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("graphql_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&inventoryEntity.StockRecord{}, &inventoryEntity.StockEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB, name string, onHand, threshold int) *inventoryEntity.StockRecord {
	t.Helper()
	rec, err := inventoryEntity.NewStockRecord(1, name, 100, "USD", onHand, threshold)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	if err := inventoryRepo.NewStockRepository(db).Create(rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	return rec
}

type gqlResponse struct {
	Data   map[string]interface{}
	Errors []struct{ Message string }
}

func runQuery(t *testing.T, db *gorm.DB, query string) gqlResponse {
	t.Helper()
	schema, err := graphqlserver.NewSchema(db)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	e := echo.New()
	graphqlApi.RegisterGraphQLRoutesWithSchema(e, schema)

	body, _ := json.Marshal(map[string]interface{}{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp gqlResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestQuery_StockRecord(t *testing.T) {
	db := graphqlTestDB(t)
	rec := seed(t, db, "Pump Impeller", 12, 3)

	resp := runQuery(t, db, fmt.Sprintf(
		`query { stockRecord(id: "%d") { name quantityOnHand reservedQuantity available version } }`, rec.RecordID))
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	got, ok := resp.Data["stockRecord"].(map[string]interface{})
	if !ok {
		t.Fatal("data.stockRecord missing")
	}
	if got["name"] != "Pump Impeller" {
		t.Errorf("name = %v", got["name"])
	}
	if int(got["quantityOnHand"].(float64)) != 12 || int(got["available"].(float64)) != 12 {
		t.Errorf("quantities = %v/%v, want 12/12", got["quantityOnHand"], got["available"])
	}
	if got["version"] != "0" {
		t.Errorf("version = %v, want \"0\"", got["version"])
	}
}

func TestQuery_StockRecord_Unknown(t *testing.T) {
	db := graphqlTestDB(t)
	resp := runQuery(t, db, `query { stockRecord(id: "9999") { name } }`)
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	if resp.Data["stockRecord"] != nil {
		t.Errorf("stockRecord = %v, want null", resp.Data["stockRecord"])
	}
}

func TestQuery_LowStock(t *testing.T) {
	db := graphqlTestDB(t)
	low := seed(t, db, "O-Ring Kit", 2, 5)
	seed(t, db, "Canister", 50, 5)

	resp := runQuery(t, db, `query { lowStock { recordId name available threshold } }`)
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	items, ok := resp.Data["lowStock"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("lowStock = %v, want one item", resp.Data["lowStock"])
	}
	item := items[0].(map[string]interface{})
	if item["recordId"] != fmt.Sprint(low.RecordID) {
		t.Errorf("recordId = %v, want %d", item["recordId"], low.RecordID)
	}
}

func TestQuery_Extension(t *testing.T) {
	db := graphqlTestDB(t)
	resp := runQuery(t, db, `query { extension(name: "uptime") }`)
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	raw, ok := resp.Data["extension"].(string)
	if !ok {
		t.Fatal("extension result missing")
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("extension payload not JSON: %v", err)
	}
	if _, ok := payload["uptime_seconds"]; !ok {
		t.Errorf("payload = %v, want uptime_seconds key", payload)
	}
}

func TestQuery_Extension_Unknown(t *testing.T) {
	db := graphqlTestDB(t)
	resp := runQuery(t, db, `query { extension(name: "nope") }`)
	if len(resp.Errors) == 0 {
		t.Error("expected an error for an unknown extension")
	}
}
