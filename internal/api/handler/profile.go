package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/ofelia/internal/api/apierr"
	"github.com/mcoot/ofelia/internal/api/middleware"
	"github.com/mcoot/ofelia/internal/api/request"
	"github.com/mcoot/ofelia/internal/api/response"
	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/services/presenter"
	"github.com/mcoot/ofelia/internal/services/wizard"
)

// ProfileHandler handles profile reads, registrations and updates
type ProfileHandler struct {
	presenter *presenter.Service
	wizard    *wizard.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(presenter *presenter.Service, wizard *wizard.Service) *ProfileHandler {
	return &ProfileHandler{
		presenter: presenter,
		wizard:    wizard,
	}
}

// Get handles GET /api/v1/profiles/{id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.BraceletID(mux.Vars(r)["id"])

	view, err := h.presenter.Present(r.Context(), id, middleware.GetOwner(r.Context()))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromView(view))
}

// Register handles POST /api/v1/registrations.
// The request is run through every wizard step, so the same gates apply as in the browser.
func (h *ProfileHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegistrationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	personal, err := h.personal(req.Profile)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	id := model.BraceletID(strings.TrimSpace(req.ID))
	token, _, err := h.wizard.Begin(r.Context(), id, false, "")
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	st, err := h.wizard.Apply(r.Context(), token, "",
		wizard.EditAccount{Username: req.Username, Password: req.Password}, wizard.Next{},
		personal, wizard.Next{},
		wizard.Next{},
	)
	if err != nil {
		h.wizard.Discard(token)
		apierr.WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/profiles/"+string(st.ID), committed(st))
}

// Update handles PUT /api/v1/profiles/{id}. Requires the owner's session.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.BraceletID(mux.Vars(r)["id"])

	var req request.ProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	personal, err := h.personal(req)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	owner := middleware.GetOwner(r.Context())
	token, _, err := h.wizard.Begin(r.Context(), id, true, owner)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	st, err := h.wizard.Apply(r.Context(), token, owner, personal, wizard.Next{}, wizard.Next{})
	if err != nil {
		h.wizard.Discard(token)
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, committed(st))
}

func (h *ProfileHandler) personal(req request.ProfileRequest) (wizard.EditPersonal, error) {
	personal := wizard.EditPersonal{
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		PrimaryContactName:   req.PrimaryContactName,
		PrimaryPhone:         req.PrimaryPhone,
		SecondaryContactName: req.SecondaryContactName,
		SecondaryPhone:       req.SecondaryPhone,
		Email:                req.Email,
		Message:              req.Message,
	}
	if req.Photo != "" {
		photo, err := h.wizard.DecodePhoto(req.Photo)
		if err != nil {
			if errors.Is(err, model.ErrInvalidPhoto) {
				return personal, err
			}
			return personal, apierr.NewInvalidRequestError("invalid photo")
		}
		personal.Photo = photo
	}
	return personal, nil
}

func committed(st wizard.State) response.Committed {
	return response.Committed{
		ID:         string(st.ID),
		Mode:       string(st.Mode),
		ProfileURL: model.ProfilePath(st.ID),
	}
}
