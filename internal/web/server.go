package web

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Reports supplies the Markdown documents served as pages.
type Reports interface {
	Warnings() string
	Recap() string
	News() string
	Dates() string
}

// Raw HTML in Markdown input is escaped since WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

type Server struct {
	reports Reports
	srv     *http.Server
}

func NewServer(addr string, reports Reports) *Server {
	s := &Server{reports: reports}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", healthCheckHandler)
	mux.HandleFunc("GET /recap", s.markdownHandler("Weekly Recap", func() string {
		return s.reports.Warnings() + s.reports.Recap() + "\n\n" + s.reports.Dates()
	}))
	mux.HandleFunc("GET /news", s.markdownHandler("League News", s.reports.News))
	return mux
}

// ListenAndServe blocks until ctx is done, then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) markdownHandler(title string, render func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		if err := mdRenderer.Convert([]byte(render()), &body); err != nil {
			slog.Error("internal_error", "path", r.URL.Path, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := page.Execute(w, struct {
			Title string
			Body  template.HTML
		}{title, template.HTML(body.String())})
		if err != nil {
			slog.Error("Failed to write page", "path", r.URL.Path, "error", err)
		}
	}
}
