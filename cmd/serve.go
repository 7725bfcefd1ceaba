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
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/shopwindow/internal/importer"
	"github.com/sells-group/shopwindow/internal/model"
	"github.com/sells-group/shopwindow/internal/store"
	"github.com/sells-group/shopwindow/internal/sweep"
	"github.com/sells-group/shopwindow/pkg/geocode"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		api := &apiServer{store: st, geocoder: initGeocoder()}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.router(),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	store    store.Store
	geocoder geocode.Client
}

func (s *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/imports", s.handleImport)
	r.Get("/api/imports", s.handleListRuns)
	r.Get("/api/imports/{id}", s.handleGetRun)
	r.Post("/api/geocode/sweep", s.handleSweep)
	r.Get("/api/centers", s.handleListCenters)

	return r
}

// handleImport accepts CSV content, either as a multipart "file" field
// or as the raw request body, and runs it through the importer.
func (s *apiServer) handleImport(w http.ResponseWriter, r *http.Request) {
	source := r.Body
	name := "upload.csv"

	if mt := r.Header.Get("Content-Type"); len(mt) >= 19 && mt[:19] == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "multipart request needs a file field")
			return
		}
		defer file.Close()
		source = file
		name = header.Filename
	}

	rows, err := importer.ReadCSV(source)
	if err != nil {
		writeError(w, http.StatusBadRequest, eris.ToString(err, false))
		return
	}

	purge := r.URL.Query().Get("purge") == "true"
	im := importer.New(s.store, s.geocoder, model.DefaultCategoryGroups)
	stats, err := im.Run(r.Context(), rows, importer.Options{
		SourceName:    name,
		PurgeExisting: purge,
		ProgressEvery: cfg.Import.ProgressEvery,
	})
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, geocode.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		if stats != nil {
			writeJSON(w, status, stats)
			return
		}
		writeError(w, status, eris.ToString(err, false))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *apiServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.ListImportRuns(r.Context(), store.RunFilter{
		Status: model.RunStatus(r.URL.Query().Get("status")),
		Limit:  limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, eris.ToString(err, false))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *apiServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetImportRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, eris.ToString(err, false))
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *apiServer) handleSweep(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := sweep.Run(r.Context(), s.store, s.geocoder, sweep.Options{
		Force: r.URL.Query().Get("force") == "true",
		Delay: cfg.Geocode.SweepDelay(),
		Limit: limit,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, geocode.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, eris.ToString(err, false))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleListCenters(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	centers, err := s.store.ListCenters(r.Context(), store.CenterFilter{
		MissingCoordinates: r.URL.Query().Get("missing_coordinates") == "true",
		Limit:              limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, eris.ToString(err, false))
		return
	}
	writeJSON(w, http.StatusOK, centers)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
