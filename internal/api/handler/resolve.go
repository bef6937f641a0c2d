package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/ofelia/internal/api/apierr"
	"github.com/mcoot/ofelia/internal/api/response"
	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/services/resolver"
)

// ResolveHandler handles bracelet lookups
type ResolveHandler struct {
	resolver *resolver.Service
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(resolver *resolver.Service) *ResolveHandler {
	return &ResolveHandler{resolver: resolver}
}

// Resolve handles GET /api/v1/resolve/{id}
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.resolver.Resolve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if outcome.Kind == resolver.KindRejected {
		apierr.WriteError(w, model.ErrRejectedID)
		return
	}

	response.JSON(w, http.StatusOK, response.ResolutionFromOutcome(outcome))
}
