package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generated map artifacts over HTTP",
	Long: `Serves a directory of generated choropleth artifacts (HTML maps, GeoJSON)
so they can be opened in a browser or embedded elsewhere.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Server.Port
		}

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return eris.Errorf("artifact directory %s does not exist", dir)
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		r.Get("/artifacts", func(w http.ResponseWriter, _ *http.Request) {
			names, err := listArtifacts(dir)
			if err != nil {
				http.Error(w, `{"error":"list artifacts"}`, http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string][]string{"artifacts": names})
		})

		r.Handle("/maps/*", http.StripPrefix("/maps/", http.FileServer(http.Dir(dir))))

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down artifact server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("artifact server listening",
			zap.Int("port", port),
			zap.String("dir", dir),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("dir", ".", "directory of generated artifacts")
	serveCmd.Flags().Int("port", 0, "listen port (default: from config)")
	rootCmd.AddCommand(serveCmd)
}

// listArtifacts returns the servable artifact file names in dir.
func listArtifacts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".html", ".geojson", ".json", ".xlsx":
			names = append(names, e.Name())
		}
	}
	return names, nil
}
