// Package api tagdecode REST API
//
// @title           tagdecode REST API
// @version         1.0.0
// @description     HTTP service that identifies observed fiducial marker codewords.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

const shutdownTimeout = 10 * time.Second

// NewRouter wires every route of s. When gatherer is non-nil its metrics are
// served, unauthenticated, at /metrics.
func NewRouter(s *Server, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	m := s.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey, s.logger))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Get("/families", m.InstrumentHandler("GET", "/api/v1/families", s.handleListFamilies))
		r.Get("/families/{name}/stats", m.InstrumentHandler("GET", "/api/v1/families/{name}/stats", s.handleFamilyStats))

		r.Post("/decode", m.InstrumentHandler("POST", "/api/v1/decode", s.handleDecode))

		r.Get("/detections", m.InstrumentHandler("GET", "/api/v1/detections", s.handleListDetections))
		r.Get("/detections/{id}", m.InstrumentHandler("GET", "/api/v1/detections/{id}", s.handleGetDetection))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", s.handleSwagger)

	return r
}

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	<title>tagdecode API Documentation</title>
	<link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	<div id="swagger-ui"></div>
	<script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	<script>
	  window.onload = function() {
	    SwaggerUIBundle({
	      url: '/swagger/swagger.json',
	      dom_id: '#swagger-ui',
	      presets: [
	        SwaggerUIBundle.presets.apis,
	        SwaggerUIBundle.presets.standalone
	      ]
	    });
	  };
	</script>
</body>
</html>`

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	var contentType string
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
		return
	case "/swagger/swagger.json":
		contentType = "application/json"
	case "/swagger/swagger.yaml":
		// The document is JSON, which is valid YAML.
		contentType = "application/yaml"
	default:
		http.NotFound(w, r)
		return
	}

	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		s.logger.Error("failed to render swagger doc", "error", err)
		http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write([]byte(doc))
}

// StartServer serves the API until ctx is cancelled, then shuts down
// gracefully. Families in registry are expected to be initialized.
func StartServer(ctx context.Context, registry FamilyRegistry, history DetectionHistory, config ServerConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		metrics  *Metrics
		gatherer prometheus.Gatherer
	)
	if config.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = NewMetrics(reg)
		gatherer = reg
	}

	SwaggerInfo.Host = net.JoinHostPort("localhost", strconv.Itoa(config.Port))

	server := NewServer(registry, history, config, metrics, logger)
	server.ObserveTables()

	addr := net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(server, gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting tagdecode REST API server", "addr", addr, "metrics", config.Metrics)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down tagdecode REST API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
