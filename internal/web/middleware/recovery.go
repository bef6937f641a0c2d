package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/ofelia/internal/metrics"
	"github.com/mcoot/ofelia/internal/middleware"
	"github.com/mcoot/ofelia/internal/web/templates/layout"
	"github.com/mcoot/ofelia/internal/web/templates/pages"
)

// Recovery answers handler panics with the branded error page
func Recovery(logger *slog.Logger, m *metrics.Metrics, brand string) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, m, func(w http.ResponseWriter, r *http.Request, _ any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		page := pages.ServerError(layout.PageData{Title: "Error", Brand: brand})
		if err := page.Render(r.Context(), w); err != nil {
			logger.Error("render failed", slog.String("error", err.Error()))
		}
	})
}
