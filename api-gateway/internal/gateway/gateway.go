package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	OrderSvcURL    string
	NotifySvcURL   string
	TrustedProxies TrustedProxies
}

// Hop-by-hop headers are meaningful only for a single connection.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

type Gateway struct {
	config  Config
	client  HTTPClient
	limiter *ClientLimiter
	logger  zerolog.Logger
}

func NewGateway(config Config, client HTTPClient, limiter *ClientLimiter, logger zerolog.Logger) *Gateway {
	return &Gateway{
		config:  config,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Str("target", targetURL).Msg("proxy")

	target := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to create upstream request")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	req.ContentLength = r.ContentLength

	for k, v := range r.Header {
		req.Header[k] = v
	}
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}
	req.Header.Set("X-Forwarded-For", g.config.TrustedProxies.ForwardedFor(r))

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().Err(err).Str("target", targetURL).Msg("upstream unavailable")
		writeError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	for _, h := range hopHeaders {
		w.Header().Del(h)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Warn().Err(err).Msg("failed to copy response")
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/api/notifications/stats" && r.Method == http.MethodGet {
		r.URL.Path = "/stats/today"
		g.ProxyRequest(w, r, g.config.NotifySvcURL)
		return
	}

	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/uploads/") {
		g.ProxyRequest(w, r, g.config.OrderSvcURL)
		return
	}

	writeError(w, http.StatusNotFound, "route not found")
}

// WebSocketProxy tunnels /ws upgrades to notify-svc.
func (g *Gateway) WebSocketProxy() (http.Handler, error) {
	target, err := url.Parse(g.config.NotifySvcURL)
	if err != nil {
		return nil, err
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		// The reverse proxy appends the peer itself.
		if !g.config.TrustedProxies.trusts(peerIP(req)) {
			req.Header.Del("X-Forwarded-For")
		}
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		g.logger.Error().Err(err).Msg("websocket upstream unavailable")
		writeError(w, http.StatusBadGateway, "upstream unavailable")
	}
	return proxy, nil
}

func (g *Gateway) SetupRoutes() (http.Handler, error) {
	ws, err := g.WebSocketProxy()
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.Handle("/ws", ws)
	r.PathPrefix("/").Handler(g.limiter.Middleware(http.HandlerFunc(g.RouteHandler)))
	return r, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
