package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/cluster"
	"github.com/sells-group/siteselect/internal/config"
	"github.com/sells-group/siteselect/internal/engine"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env.Engine, cfg.Cluster),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// newRouter builds the HTTP surface over the engine.
func newRouter(eng *engine.Engine, clusterDefaults config.ClusterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/recommend/locations", func(w http.ResponseWriter, req *http.Request) {
			category := req.URL.Query().Get("category")
			radiusKM := 1.0
			if raw := req.URL.Query().Get("radius_km"); raw != "" {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					writeError(w, &engine.InvalidArgumentError{Field: "radius_km", Reason: "must be a number"})
					return
				}
				radiusKM = v
			}

			res, err := eng.RankAreas(req.Context(), catalog.Category(category), radiusKM)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Get("/areas/{name}/opportunities", func(w http.ResponseWriter, req *http.Request) {
			res, err := eng.AnalyzeArea(req.Context(), chi.URLParam(req, "name"))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Post("/analyze/clusters", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Points     []cluster.Point `json:"points"`
				EpsKM      float64         `json:"eps_km"`
				MinSamples int             `json:"min_samples"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, &engine.InvalidArgumentError{Field: "body", Reason: "invalid JSON"})
				return
			}
			if body.EpsKM == 0 {
				body.EpsKM = clusterDefaults.EpsKM
			}
			if body.MinSamples == 0 {
				body.MinSamples = clusterDefaults.MinSamples
			}

			res, err := eng.ClusterPoints(req.Context(), body.Points, body.EpsKM, body.MinSamples)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Get("/competitors/clusters", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			lat, err := strconv.ParseFloat(q.Get("lat"), 64)
			if err != nil {
				writeError(w, &engine.InvalidArgumentError{Field: "lat", Reason: "must be a number"})
				return
			}
			lng, err := strconv.ParseFloat(q.Get("lng"), 64)
			if err != nil {
				writeError(w, &engine.InvalidArgumentError{Field: "lng", Reason: "must be a number"})
				return
			}
			radiusKM := 1.0
			if raw := q.Get("radius_km"); raw != "" {
				if radiusKM, err = strconv.ParseFloat(raw, 64); err != nil {
					writeError(w, &engine.InvalidArgumentError{Field: "radius_km", Reason: "must be a number"})
					return
				}
			}
			epsKM := clusterDefaults.EpsKM
			if raw := q.Get("eps_km"); raw != "" {
				if epsKM, err = strconv.ParseFloat(raw, 64); err != nil {
					writeError(w, &engine.InvalidArgumentError{Field: "eps_km", Reason: "must be a number"})
					return
				}
			}
			minSamples := clusterDefaults.MinSamples
			if raw := q.Get("min_samples"); raw != "" {
				if minSamples, err = strconv.Atoi(raw); err != nil {
					writeError(w, &engine.InvalidArgumentError{Field: "min_samples", Reason: "must be an integer"})
					return
				}
			}

			res, err := eng.CompetitorClusters(req.Context(),
				catalog.Category(q.Get("category")), lat, lng, radiusKM, epsKM, minSamples)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Get("/cache/stats", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, eng.CacheStats())
		})
	})

	return r
}

// requestID tags every request with a UUID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		next.ServeHTTP(w, r)

		zap.L().Debug("http request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the engine error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var invalid *engine.InvalidArgumentError
	var notFound *engine.LocationNotFoundError
	var empty *engine.EmptyResultError
	switch {
	case errors.Is(err, engine.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &empty):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	default:
		zap.L().Error("request failed", zap.Error(err))
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
