package router

import (
	"time"

	"github.com/ouola/Phantom-backend/internal/config"
	"github.com/ouola/Phantom-backend/internal/handler"
	"github.com/ouola/Phantom-backend/internal/infra"
	"github.com/ouola/Phantom-backend/internal/middleware"
	"github.com/ouola/Phantom-backend/internal/repository"
	"github.com/ouola/Phantom-backend/internal/service"
	"github.com/ouola/Phantom-backend/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil; the mask cache and purchase events are then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute, nil))

	loc, err := cfg.Location()
	if err != nil {
		log.Warn().Err(err).Msg("falling back to UTC for purchase timestamps")
		loc = time.UTC
	}

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewCache(rdb, infra.NewCircuitBreaker(infra.DefaultCacheCBConfig()), cfg.CacheTTL())
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	pharmacyRepo := repository.NewPharmacyRepository(db)
	maskRepo := repository.NewMaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	hourRepo := repository.NewOpeningHourRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	scheduleSvc := service.NewScheduleService(pharmacyRepo, hourRepo)
	catalogSvc := service.NewCatalogService(pharmacyRepo, maskRepo, hourRepo, cache)
	reportSvc := service.NewReportService(purchaseRepo, pharmacyRepo)
	purchaseSvc := service.NewPurchaseService(userRepo, pharmacyRepo, maskRepo, purchaseRepo, dispatcher,
		func() time.Time { return time.Now().In(loc) })

	// ── Handlers ─────────────────────────────────────────────────────────────
	pharmaciesH := handler.NewPharmaciesHandler(scheduleSvc, catalogSvc, reportSvc)
	transactionsH := handler.NewTransactionsHandler(purchaseSvc, reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb, cache))

	pharmacies := r.Group("/pharmacies")
	{
		pharmacies.GET("/opening-hours", pharmaciesH.OpeningHours)
		pharmacies.GET("/open", pharmaciesH.IsOpen)
		pharmacies.GET("/schedule", pharmaciesH.Schedule)
		pharmacies.GET("/masks", pharmaciesH.Masks)
		pharmacies.GET("/mask-count", pharmaciesH.MaskCount)
		pharmacies.DELETE("", pharmaciesH.Delete)
	}

	r.GET("/users/top-transactions", transactionsH.TopSpenders)
	r.GET("/transactions/total", transactionsH.Totals)
	r.GET("/transactions/export", transactionsH.Export)
	r.POST("/purchase-mask", transactionsH.Purchase)
	r.GET("/purchases/:id/receipt", transactionsH.Receipt)
	r.GET("/search", pharmaciesH.Search)

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
