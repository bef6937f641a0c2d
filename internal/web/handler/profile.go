package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/services/presenter"
	"github.com/mcoot/ofelia/internal/web/middleware"
	"github.com/mcoot/ofelia/internal/web/templates/pages"
)

// ProfileHandler serves public profile pages
type ProfileHandler struct {
	presenter *presenter.Service
	brand     string
	logger    *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(presenter *presenter.Service, brand string, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		presenter: presenter,
		brand:     brand,
		logger:    logger,
	}
}

// View renders the profile for ?id
func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	id := model.BraceletID(strings.TrimSpace(r.URL.Query().Get("id")))

	view, err := h.presenter.Present(r.Context(), id, middleware.GetOwner(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingContextID):
			http.Redirect(w, r, model.LoginPath(), http.StatusSeeOther)
		case errors.Is(err, model.ErrOrphanProfile):
			http.Redirect(w, r, model.RegisterPath(id), http.StatusSeeOther)
		default:
			h.logger.Error("failed to load profile",
				slog.String("bracelet_id", string(id)),
				slog.String("error", err.Error()),
			)
			middleware.SetFlash(w, "error", "Could not load this profile.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
		}
		return
	}

	data := pages.ProfileData{
		PageData: pageData(r, h.brand, view.DisplayName),
		View:     view,
	}
	render(w, r, h.logger, http.StatusOK, pages.Profile(data))
}
