package stock

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"inventory.GO/api"
	inventoryEntity "inventory.GO/model/entity/inventory"
	inventoryRepo "inventory.GO/model/repository/inventory"
	inventoryService "inventory.GO/service/inventory"
	searchService "inventory.GO/service/search"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

// CreateRequest is the POST /api/stock body.
type CreateRequest struct {
	OwnerID        uint64 `json:"owner_id"`
	Name           string `json:"name"`
	PriceAmount    int64  `json:"price_amount"`
	PriceCurrency  string `json:"price_currency"`
	QuantityOnHand int    `json:"quantity_on_hand"`
	Threshold      int    `json:"threshold"`
}

// QuantityRequest is the body for reserve/release.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// AdjustRequest is the body for adjust.
type AdjustRequest struct {
	Delta int `json:"delta"`
}

func RegisterStockRoutes(apiGroup *echo.Group, db *gorm.DB) {
	RegisterStockRoutesWithSink(apiGroup, db, inventoryService.DefaultSink())
}

// RegisterStockRoutesWithSink wires the stock routes with an explicit event
// sink (for tests).
func RegisterStockRoutesWithSink(apiGroup *echo.Group, db *gorm.DB, sink inventoryService.Sink) {
	svc := inventoryService.NewService(db, sink)
	g := apiGroup.Group("/stock")

	// POST /api/stock – create a stock record
	g.POST("", func(c echo.Context) error {
		start := time.Now()
		var body CreateRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		rec, err := svc.CreateRecord(c.Request().Context(), body.OwnerID, body.Name, body.PriceAmount, body.PriceCurrency, body.QuantityOnHand, body.Threshold)
		if err != nil {
			return writeError(c, err, start)
		}
		// Best-effort search index; record creation never depends on ES.
		if es := searchService.GetSearchService(); es.Enabled() {
			_ = es.IndexRecord(c.Request().Context(), rec)
		}
		setDuration(c, start)
		return c.JSON(http.StatusCreated, rec)
	})

	// GET /api/stock?owner=N – all records for an owner
	g.GET("", func(c echo.Context) error {
		start := time.Now()
		ownerID, err := strconv.ParseUint(c.QueryParam("owner"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "owner required"})
		}
		recs, err := svc.ListByOwner(c.Request().Context(), ownerID)
		if err != nil {
			return writeError(c, err, start)
		}
		setDuration(c, start)
		return c.JSON(http.StatusOK, echo.Map{"items": recs, "count": len(recs)})
	})

	// GET /api/stock/low – records at or below threshold
	g.GET("/low", func(c echo.Context) error {
		start := time.Now()
		recs, err := svc.LowStock(c.Request().Context())
		if err != nil {
			return writeError(c, err, start)
		}
		setDuration(c, start)
		return c.JSON(http.StatusOK, echo.Map{"items": recs, "count": len(recs)})
	})

	// GET /api/stock/:id – current state (cached read)
	g.GET("/:id", func(c echo.Context) error {
		start := time.Now()
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		rec, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return writeError(c, err, start)
		}
		setDuration(c, start)
		return c.JSON(http.StatusOK, withAvailable(rec))
	})

	// POST /api/stock/:id/adjust – signed on-hand delta
	g.POST("/:id/adjust", func(c echo.Context) error {
		start := time.Now()
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		var body AdjustRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		rec, err := svc.Adjust(c.Request().Context(), id, body.Delta)
		if err != nil {
			return writeError(c, err, start)
		}
		setDuration(c, start)
		return c.JSON(http.StatusOK, withAvailable(rec))
	})

	// POST /api/stock/:id/reserve
	g.POST("/:id/reserve", func(c echo.Context) error {
		start := time.Now()
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		var body QuantityRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		rec, err := svc.Reserve(c.Request().Context(), id, body.Quantity)
		if err != nil {
			return writeError(c, err, start)
		}
		setDuration(c, start)
		return c.JSON(http.StatusOK, withAvailable(rec))
	})

	// POST /api/stock/:id/release
	g.POST("/:id/release", func(c echo.Context) error {
		start := time.Now()
		id, err := parseID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		var body QuantityRequest
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		rec, err := svc.Release(c.Request().Context(), id, body.Quantity)
		if err != nil {
			return writeError(c, err, start)
		}
		setDuration(c, start)
		return c.JSON(http.StatusOK, withAvailable(rec))
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

func setDuration(c echo.Context, start time.Time) {
	c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
}

// withAvailable decorates the record JSON with the derived available count.
func withAvailable(rec *inventoryEntity.StockRecord) echo.Map {
	return echo.Map{
		"record":    rec,
		"available": rec.Available(),
	}
}

// writeError maps domain errors to HTTP statuses. Business rejections keep
// a machine-readable code so clients can branch without parsing messages.
func writeError(c echo.Context, err error, start time.Time) error {
	setDuration(c, start)
	switch {
	case errors.Is(err, inventoryEntity.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "code": "invalid_argument"})
	case errors.Is(err, inventoryRepo.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, inventoryEntity.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "code": "insufficient_stock"})
	case errors.Is(err, inventoryEntity.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "code": "invalid_state"})
	case errors.Is(err, inventoryService.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "code": "conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}
