package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/ofelia/internal/web/middleware"
	"github.com/mcoot/ofelia/internal/web/templates/layout"
	"github.com/mcoot/ofelia/internal/web/templates/pages"
)

// pageData collects the layout fields every page needs from the request
func pageData(r *http.Request, brand, title string) layout.PageData {
	return layout.PageData{
		Title:     title,
		Brand:     brand,
		Owner:     middleware.GetOwner(r.Context()),
		Flash:     middleware.GetFlash(r.Context()),
		CSRFToken: middleware.CSRFToken(r),
	}
}

func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logger.Error("render failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// NotFound renders the 404 page
func NotFound(brand string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, logger, http.StatusNotFound, pages.NotFound(pageData(r, brand, "Not found")))
	}
}
