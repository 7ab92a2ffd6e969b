package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/takeoff-cli/internal/extractor"
	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/provider"
	"github.com/sells-group/takeoff-cli/internal/store"
)

var (
	servePort    int
	serveEnhance bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, _, err := initService("", serveEnhance, nil)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(svc, st, cfg.Server.RequestsPerSec),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveEnhance, "enhance", false, "run the Claude enhancement pass on server extractions")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the chi router with middleware, rate limiting, and
// the extraction routes.
func newRouter(svc *extractor.Service, st store.Store, rps float64) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(rateLimit(rps))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/extract", handleExtract(svc, st))
	r.Get("/runs", handleListRuns(st))
	r.Get("/runs/{id}", handleGetRun(st))

	return r
}

// rateLimit applies a global token-bucket limit across all clients.
func rateLimit(rps float64) func(http.Handler) http.Handler {
	if rps <= 0 {
		rps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractRequest carries either pre-extracted pages or a server-local
// document path.
type extractRequest struct {
	Source string           `json:"source"`
	Pages  []model.PageText `json:"pages,omitempty"`
	Path   string           `json:"path,omitempty"`
}

func handleExtract(svc *extractor.Service, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		var prov provider.PageProvider
		switch {
		case len(req.Pages) > 0:
			source := req.Source
			if source == "" {
				source = "inline"
			}
			prov = provider.NewInline(source, req.Pages)
		case req.Path != "":
			p, err := provider.ForPath(req.Path, cfg.Extract.PdfToTextPath)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			prov = p
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pages or path is required"})
			return
		}

		run, err := st.CreateRun(r.Context(), prov.Source())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create run failed"})
			return
		}

		result, err := svc.Extract(r.Context(), prov)
		if err != nil {
			zap.L().Error("extract request failed",
				zap.String("source", prov.Source()),
				zap.Error(err),
			)
			if mErr := st.MarkRunFailed(r.Context(), run.ID, err.Error()); mErr != nil {
				zap.L().Warn("mark run failed errored", zap.Error(mErr))
			}
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error(), "run_id": run.ID})
			return
		}

		if err := st.UpdateRunResult(r.Context(), run.ID, result); err != nil {
			zap.L().Warn("store run result failed", zap.Error(err))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"run_id": run.ID,
			"result": result,
		})
	}
}

func handleListRuns(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := model.RunFilter{
			Status: model.RunStatus(r.URL.Query().Get("status")),
			Source: r.URL.Query().Get("source"),
		}
		runs, err := st.ListRuns(r.Context(), filter)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		if runs == nil {
			runs = []model.Run{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func handleGetRun(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := st.GetRun(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}
