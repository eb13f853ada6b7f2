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

	"github.com/civicdata/crimemap/internal/boundary"
	"github.com/civicdata/crimemap/internal/model"
	"github.com/civicdata/crimemap/internal/session"
	"github.com/civicdata/crimemap/internal/view"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive map and ranking view",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := runBatch(ctx)
		if err != nil {
			return err
		}

		policy := session.YearChangePolicy(cfg.Session.YearChangePolicy)
		registry := session.NewRegistry(env.Tables, policy)

		router := newRouter(registry, env.Provider)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(registry *session.Registry, provider boundary.Provider) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/boundaries", func(w http.ResponseWriter, _ *http.Request) {
		g, ok := provider.(*boundary.GeoJSON)
		if !ok {
			http.Error(w, `{"error":"boundary dataset is not geojson"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write(g.Document())
	})

	r.Post("/api/session", func(w http.ResponseWriter, _ *http.Request) {
		id := registry.Create()
		writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
	})

	r.Route("/api/session/{id}", func(r chi.Router) {
		r.Get("/view", func(w http.ResponseWriter, req *http.Request) {
			payload, err := renderSession(registry, chi.URLParam(req, "id"), nil)
			if err != nil {
				http.Error(w, `{"error":"unknown session"}`, http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, payload)
		})

		r.Post("/year", sessionEvent(registry, func(m *session.Machine, body eventBody) {
			m.SetYear(model.YearBucket(body.Year))
		}))

		r.Post("/division", sessionEvent(registry, func(m *session.Machine, body eventBody) {
			m.ClickDivision(body.Division)
		}))

		r.Delete("/", func(w http.ResponseWriter, req *http.Request) {
			registry.Delete(chi.URLParam(req, "id"))
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}

// eventBody covers both event payloads: year 0 means the all-years bucket.
type eventBody struct {
	Year     int    `json:"year"`
	Division string `json:"division"`
}

// sessionEvent decodes an event, applies it, and responds with the
// re-derived view.
func sessionEvent(registry *session.Registry, apply func(*session.Machine, eventBody)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body eventBody
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		payload, err := renderSession(registry, chi.URLParam(req, "id"), func(m *session.Machine) {
			apply(m, body)
		})
		if err != nil {
			http.Error(w, `{"error":"unknown session"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// renderSession applies an optional event and renders the resulting view
// in one critical section, so no machine access escapes the registry lock.
func renderSession(registry *session.Registry, id string, apply func(*session.Machine)) (view.Payload, error) {
	var payload view.Payload
	err := registry.With(id, func(m *session.Machine) {
		if apply != nil {
			apply(m)
		}
		payload = view.Render(m.Selection(), m.Derive())
	})
	return payload, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
