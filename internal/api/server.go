// Package api wires the alignment engine, the sync-point store, and the
// rebuild watcher into an HTTP surface.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/star/scopealign/internal/align"
	"github.com/star/scopealign/internal/astro"
	"github.com/star/scopealign/internal/auth"
	"github.com/star/scopealign/internal/health"
	"github.com/star/scopealign/internal/httputil"
	"github.com/star/scopealign/internal/metrics"
	"github.com/star/scopealign/internal/rebuild"
	"github.com/star/scopealign/internal/syncdb"
	"github.com/star/scopealign/internal/vector"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server backed by engine, store, and
// watcher. trustProxy controls whether the logging middleware trusts
// X-Forwarded-For/X-Real-IP for the client IP it logs; only enable it
// behind a trusted reverse proxy.
func NewServer(addr string, logger *slog.Logger, authCfg auth.Config, engine *align.Engine, store *syncdb.Store, watcher *rebuild.Watcher, trustProxy bool) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /readyz", health.Readyz(engine))
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/v1/sync", syncHandler(logger, store, watcher))
	mux.HandleFunc("POST /api/v1/align/initialise", initialiseHandler(logger, watcher))
	mux.HandleFunc("GET /api/v1/align/celestial-to-telescope", celestialToTelescopeHandler(engine))
	mux.HandleFunc("GET /api/v1/align/telescope-to-celestial", telescopeToCelestialHandler(engine))

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = loggingMiddleware(logger, trustProxy)(handler)
	handler = metrics.Middleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// syncRequest is the body of POST /api/v1/sync. Exactly one of Position or
// SyncPoint must be set: a position update and a sync-point append are
// distinct writes, but sharing one endpoint keeps the write surface small.
type syncRequest struct {
	Position *struct {
		LatitudeDeg  float64 `json:"latitude_deg"`
		LongitudeDeg float64 `json:"longitude_deg"`
		ElevationM   float64 `json:"elevation_m"`
	} `json:"position,omitempty"`
	SyncPoint *struct {
		RAHours       float64 `json:"ra_hours"`
		DecDeg        float64 `json:"dec_deg"`
		ObservationJD float64 `json:"observation_jd"`
		Apparent      struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
			Z float64 `json:"z"`
		} `json:"apparent"`
	} `json:"sync_point,omitempty"`
}

func syncHandler(logger *slog.Logger, store *syncdb.Store, watcher *rebuild.Watcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req syncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		switch {
		case req.Position != nil && req.SyncPoint != nil:
			writeError(w, http.StatusBadRequest, "body must set exactly one of position or sync_point")
			return
		case req.Position != nil:
			store.SetReferencePosition(astro.Position{
				LatitudeDeg:  req.Position.LatitudeDeg,
				LongitudeDeg: req.Position.LongitudeDeg,
				ElevationM:   req.Position.ElevationM,
			})
		case req.SyncPoint != nil:
			sp := req.SyncPoint
			store.AddSyncPoint(align.SyncPointEntry{
				RAHours:       sp.RAHours,
				DecDeg:        sp.DecDeg,
				ObservationJD: sp.ObservationJD,
				ApparentVector: vector.New(
					sp.Apparent.X, sp.Apparent.Y, sp.Apparent.Z,
				),
			})
		default:
			writeError(w, http.StatusBadRequest, "body must set either position or sync_point")
			return
		}

		if err := watcher.TriggerRebuild(); err != nil {
			logger.Warn("rebuild after sync write failed", "error", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "sync_points": store.Len()})
	}
}

func initialiseHandler(logger *slog.Logger, watcher *rebuild.Watcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := watcher.TriggerRebuild(); err != nil {
			kindWriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}
}

func celestialToTelescopeHandler(engine *align.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ra, err := parseFloatParam(r, "ra_hours")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dec, err := parseFloatParam(r, "dec_deg")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		jdOffset := 0.0
		if r.URL.Query().Get("jd_offset_days") != "" {
			jdOffset, err = parseFloatParam(r, "jd_offset_days")
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		apparent, err := engine.CelestialToTelescope(ra, dec, jdOffset)
		if err != nil {
			kindWriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]float64{
			"x": apparent.X, "y": apparent.Y, "z": apparent.Z,
		})
	}
}

func telescopeToCelestialHandler(engine *align.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		x, err := parseFloatParam(r, "x")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		y, err := parseFloatParam(r, "y")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		z, err := parseFloatParam(r, "z")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		ra, dec, err := engine.TelescopeToCelestial(vector.New(x, y, z))
		if err != nil {
			kindWriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]float64{
			"ra_hours": ra, "dec_deg": dec,
		})
	}
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, errors.New("missing query parameter: " + name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New("invalid query parameter: " + name)
	}
	return f, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// kindWriteError maps an *align.Error to an HTTP status by kind; a NotBuilt
// or NoDatabase error means the client asked too early (409), a singular
// basis, failed hull, failed fallback triple or domain error is a problem
// with the sync-point data or the request (422), and anything else falls
// back to 500.
func kindWriteError(w http.ResponseWriter, err error) {
	kind, ok := align.KindOf(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	switch kind {
	case align.NotBuilt, align.NoDatabase:
		writeError(w, http.StatusConflict, err.Error())
	case align.SingularBasis, align.HullFailure, align.NoIntersection, align.DomainError:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}
