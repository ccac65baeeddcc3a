package main

import (
	"context"
	"time"

	"restobar/config"
	httpapi "restobar/order-svc/internal/api/http"
	"restobar/order-svc/internal/auth"
	"restobar/order-svc/internal/service"
	"restobar/order-svc/internal/storage"
)

const reviewMarkerTTL = 30 * 24 * time.Hour

func main() {
	cfg := config.Load()
	logger := config.NewLogger("order-svc")

	db := config.MustInitPostgres(cfg, logger)
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	rdb := config.MustInitRedis(cfg, logger)
	defer rdb.Close()

	writer := config.NewKafkaWriter(cfg, config.EventsTopic)
	defer writer.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	notifier := service.NewEventNotifier(storage.NewKafkaPublisher(writer), cfg.NotifyTTL, logger)
	limiter := storage.NewLoginLimiter(rdb, cfg.LoginLimit, cfg.LoginWindow)
	discounts := service.NewDiscountService(repo, repo, repo)
	qr := service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}
	settings := service.NewSettingsService(repo, notifier, logger)

	handler := &httpapi.Handler{
		Products:     service.NewProductService(repo),
		Tables:       service.NewTableService(repo),
		Carts:        service.NewCartService(repo, repo, logger),
		Orders:       service.NewOrderService(repo, repo, repo, discounts, settings, notifier, qr, logger),
		Reservations: service.NewReservationService(repo, repo, notifier, logger),
		Vouchers:     service.NewVoucherService(repo, logger),
		PWD:          service.NewPWDService(repo, logger),
		Reviews:      service.NewReviewService(repo, storage.NewRedisCache(rdb, reviewMarkerTTL), notifier),
		Accounts:     service.NewAccountService(repo, limiter, tokens, notifier, logger),
		Settings:     settings,
		Uploads:      service.NewUploadService(repo),
		Auth:         tokens,
		Files:        storage.NewFileStore(cfg.UploadDir),
		UploadDir:    cfg.UploadDir,
		Logger:       logger,
	}

	router := httpapi.NewRouter(handler)
	httpapi.StartServer(cfg.HTTPAddr, router, logger)
}
