package availability

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"inventory.GO/api"
	"inventory.GO/config"
	inventoryEntity "inventory.GO/model/entity/inventory"
	inventoryRepo "inventory.GO/model/repository/inventory"
)

func init() {
	api.RegisterModule(RegisterAvailabilityRoutes)
}

// AvailabilityResponse is the snapshot returned to order-taking callers.
type AvailabilityResponse struct {
	RecordID  uint                         `json:"record_id"`
	Name      string                       `json:"name"`
	OnHand    int                          `json:"on_hand"`
	Reserved  int                          `json:"reserved"`
	Available int                          `json:"available"`
	Low       bool                         `json:"low"`
	Events    []inventoryEntity.StockEvent `json:"recent_events"`
}

// Singleton repository (created once per DB)
var (
	repoInstance *inventoryRepo.StockRepository
	repoOnce     sync.Once
)

func getRepository(db *gorm.DB) *inventoryRepo.StockRepository {
	repoOnce.Do(func() {
		repoInstance = inventoryRepo.NewStockRepository(db)
	})
	return repoInstance
}

// getCryptKey returns the shared signing key from env
func getCryptKey() string {
	return config.GetEnv("OWNER_CRYPT_KEY", "")
}

// verifyOwnerSignature validates HMAC-SHA256 signature using constant-time comparison
func verifyOwnerSignature(ownerID, signature, cryptKey string) bool {
	if cryptKey == "" || ownerID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(cryptKey))
	mac.Write([]byte(ownerID))
	expected := mac.Sum(nil)
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, sig)
}

// RegisterAvailabilityRoutes sets up the availability snapshot API.
func RegisterAvailabilityRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/availability")

	// GET /api/availability?id=N
	g.GET("", func(c echo.Context) error {
		start := time.Now()

		// Optional owner signature check, constant-time
		ownerID := c.Request().Header.Get("X-Owner-ID")
		ownerSig := c.Request().Header.Get("X-Owner-Sig")
		cryptKey := getCryptKey()
		if cryptKey != "" && !verifyOwnerSignature(ownerID, ownerSig, cryptKey) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
		}

		idParam := c.QueryParam("id")
		if idParam == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "id required"})
		}
		id64, err := strconv.ParseUint(idParam, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
		id := uint(id64)

		repo := getRepository(db)

		var rec *inventoryEntity.StockRecord
		var events []inventoryEntity.StockEvent

		// Parallel fetch using errgroup
		eg := new(errgroup.Group)
		eg.Go(func() error {
			var err error
			rec, err = repo.LoadCached(id)
			return err
		})
		eg.Go(func() error {
			var err error
			events, err = repo.RecentEvents(id, 5)
			return err
		})
		if err := eg.Wait(); err != nil {
			if errors.Is(err, inventoryRepo.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
		return c.JSON(http.StatusOK, AvailabilityResponse{
			RecordID:  rec.RecordID,
			Name:      rec.Name,
			OnHand:    rec.QuantityOnHand,
			Reserved:  rec.ReservedQuantity,
			Available: rec.Available(),
			Low:       rec.Available() <= rec.Threshold,
			Events:    events,
		})
	})
}
