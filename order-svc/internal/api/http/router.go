package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// NewRouter registers the API routes, including /uploads/ which serves
// files from handler.UploadDir behind the upload access rules.
func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Retry-After", "Content-Disposition"},
	}).Handler(r)
}

func StartServer(addr string, handler http.Handler, logger zerolog.Logger) {
	logger.Info().Str("addr", addr).Msg("order service starting")
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal().Err(err).Msg("order service stopped")
	}
}
