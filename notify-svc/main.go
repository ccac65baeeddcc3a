package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"restobar/config"
	"restobar/notify-svc/internal/service"
	"restobar/notify-svc/internal/storage"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const consumerGroup = "notify-svc"

type activityReader interface {
	DailyActivity(ctx context.Context, day time.Time) (map[string]int, error)
}

func newRouter(hub *service.Hub, store activityReader, logger zerolog.Logger) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "healthy",
			"service": "notify-svc",
			"clients": hub.ClientCount(),
		})
	}).Methods("GET")

	r.HandleFunc("/ws", hub.HandleWebSocket)

	r.HandleFunc("/stats/today", func(w http.ResponseWriter, r *http.Request) {
		counts, err := store.DailyActivity(r.Context(), time.Now())
		if err != nil {
			logger.Error().Err(err).Msg("failed to read activity")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}).Methods("GET")

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func main() {
	cfg := config.Load()
	logger := config.NewLogger("notify-svc")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(cfg, logger)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg, config.EventsTopic, consumerGroup)
	defer reader.Close()

	hub := service.NewHub(logger)
	go hub.Run(ctx)

	store := storage.NewStore(rdb)
	mailer := service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	consumer := service.NewConsumer(reader, store, mailer, hub, cfg.NotifyTTL, logger)
	go consumer.Start(ctx)

	server := &http.Server{Addr: cfg.NotifyAddr, Handler: newRouter(hub, store, logger)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", cfg.NotifyAddr).Msg("notify-svc listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server failed")
	}
	<-hub.Done()
	logger.Info().Msg("notify-svc stopped")
}
