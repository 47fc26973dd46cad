package cli

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/pipeline"
	"github.com/matzehuels/bestof/pkg/render"
)

const pageTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>%s</title></head>
<body style="max-width:980px;margin:2em auto;font-family:sans-serif">
`

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [projects.yaml]",
		Short: "Preview the generated list in a browser",
		Long: `Serve renders the generated markdown report and the latest changes digest as
HTML. Files are read on every request, so a concurrent generate run shows up
on reload.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := documentPath(args)
			doc, err := config.Load(path)
			if err != nil {
				return err
			}
			output := resolve(path, doc.Configuration.MarkdownOutputFile)
			return c.serve(cmd.Context(), addr, output)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	return cmd
}

func (c *CLI) serve(ctx context.Context, addr, output string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newPreviewRouter(output, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Serving %s", output)
	printDetail("http://%s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// newPreviewRouter serves the report at output:
//
//	GET /          report as HTML
//	GET /changes   latest changes digest as HTML
//	GET /raw       report as markdown
//	GET /healthz   liveness
func newPreviewRouter(output string, logger *log.Logger) http.Handler {
	changes := filepath.Join(filepath.Dir(output), pipeline.LatestChangesFile)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			logger.Debug("preview request", "path", req.URL.Path, "duration", time.Since(start))
		})
	})

	r.Get("/", htmlHandler(output, logger))
	r.Get("/changes", htmlHandler(changes, logger))
	r.Get("/raw", func(w http.ResponseWriter, req *http.Request) {
		data, err := os.ReadFile(output)
		if err != nil {
			http.Error(w, "report not generated yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write(data)
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func htmlHandler(path string, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		data, err := os.ReadFile(path)
		if err != nil {
			http.Error(w, filepath.Base(path)+" not generated yet", http.StatusNotFound)
			return
		}
		body, err := render.HTML(data)
		if err != nil {
			logger.Error("render preview", "path", path, "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, pageTemplate, html.EscapeString(filepath.Base(path)))
		_, _ = w.Write(body)
		_, _ = w.Write([]byte("</body></html>\n"))
	}
}
