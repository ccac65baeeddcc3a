package main

import (
	"net/http"
	"time"

	"restobar/api-gateway/internal/gateway"
	"restobar/config"

	"github.com/rs/cors"
)

const (
	limiterSweep   = time.Minute
	limiterMaxIdle = 10 * time.Minute
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger("api-gateway")

	proxies, err := gateway.ParseTrustedProxies(cfg.GatewayTrustedProxies)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid GATEWAY_TRUSTED_PROXIES")
	}

	limiter := gateway.NewClientLimiter(cfg.GatewayRPS, cfg.GatewayBurst, proxies)
	go func() {
		for range time.Tick(limiterSweep) {
			limiter.Cleanup(limiterMaxIdle)
		}
	}()

	gw := gateway.NewGateway(gateway.Config{
		OrderSvcURL:    cfg.OrderSvcURL,
		NotifySvcURL:   cfg.NotifySvcURL,
		TrustedProxies: proxies,
	}, &http.Client{Timeout: 30 * time.Second}, limiter, logger)

	r, err := gw.SetupRoutes()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid upstream configuration")
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Retry-After", "Content-Disposition"},
	})

	logger.Info().Str("addr", cfg.GatewayAddr).Msg("api gateway listening")
	if err := http.ListenAndServe(cfg.GatewayAddr, c.Handler(r)); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
