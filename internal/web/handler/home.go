package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/ofelia/internal/services/resolver"
	"github.com/mcoot/ofelia/internal/web/middleware"
	"github.com/mcoot/ofelia/internal/web/templates/pages"
)

const rejectedNotice = "Invalid or unauthorized bracelet ID."

// HomeHandler serves the landing/login page and bracelet lookups
type HomeHandler struct {
	resolver *resolver.Service
	brand    string
	logger   *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(resolver *resolver.Service, brand string, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		resolver: resolver,
		brand:    brand,
		logger:   logger,
	}
}

// Home renders the login page, or routes a scanned ID from the query string
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.renderLogin(w, r, http.StatusOK, pages.LoginData{})
		return
	}
	h.route(w, r, id)
}

// Search routes an ID typed into the search box exactly like a scanned one
func (h *HomeHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	id := r.FormValue("id")
	outcome, err := h.resolver.Resolve(r.Context(), id)
	if err != nil {
		h.failed(w, r, err)
		return
	}
	if outcome.Kind == resolver.KindLogin {
		h.renderLogin(w, r, http.StatusOK, pages.LoginData{SearchError: "Please enter a bracelet ID."})
		return
	}
	h.follow(w, r, outcome)
}

func (h *HomeHandler) route(w http.ResponseWriter, r *http.Request, id string) {
	outcome, err := h.resolver.Resolve(r.Context(), id)
	if err != nil {
		h.failed(w, r, err)
		return
	}
	if outcome.Kind == resolver.KindLogin {
		h.renderLogin(w, r, http.StatusOK, pages.LoginData{})
		return
	}
	h.follow(w, r, outcome)
}

func (h *HomeHandler) follow(w http.ResponseWriter, r *http.Request, outcome resolver.Outcome) {
	if outcome.Kind == resolver.KindRejected {
		h.renderLogin(w, r, http.StatusOK, pages.LoginData{
			SearchID:    string(outcome.ID),
			SearchError: rejectedNotice,
		})
		return
	}
	http.Redirect(w, r, outcome.Location(), http.StatusSeeOther)
}

func (h *HomeHandler) failed(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("resolve failed", slog.String("error", err.Error()))
	h.renderLogin(w, r, http.StatusInternalServerError, pages.LoginData{
		SearchError: "Something went wrong, please try again.",
	})
}

func (h *HomeHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data pages.LoginData) {
	data.PageData = pageData(r, h.brand, "Log in")
	render(w, r, h.logger, status, pages.Login(data))
}
