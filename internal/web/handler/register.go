package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/services/wizard"
	"github.com/mcoot/ofelia/internal/web/middleware"
	"github.com/mcoot/ofelia/internal/web/templates/pages"
)

// multipart bodies beyond this are spilled to temp files
const maxFormMemory = 8 << 20

// RegisterHandler drives the registration and edit wizard
type RegisterHandler struct {
	wizard *wizard.Service
	brand  string
	logger *slog.Logger
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(wizard *wizard.Service, brand string, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{
		wizard: wizard,
		brand:  brand,
		logger: logger,
	}
}

// Start opens a wizard for ?id (and ?edit=true), or shows an open one for ?draft
func (h *RegisterHandler) Start(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetOwner(r.Context())
	q := r.URL.Query()

	id := model.BraceletID(strings.TrimSpace(q.Get("id")))
	edit := q.Get("edit") == "true"

	if token := q.Get("draft"); token != "" {
		st, err := h.wizard.Draft(token)
		switch {
		case err != nil:
			h.draftExpired(w, r, id, edit)
		case st.Mode == wizard.ModeEdit && st.ID != owner:
			middleware.SetFlash(w, "error", "Please log in to edit this profile.")
			http.Redirect(w, r, model.LoginPath(), http.StatusSeeOther)
		default:
			h.renderStep(w, r, http.StatusOK, token, st, "", nil)
		}
		return
	}

	token, st, err := h.wizard.Begin(r.Context(), id, edit, owner)
	if err != nil {
		h.beginFailed(w, r, id, err)
		return
	}

	h.renderStep(w, r, http.StatusOK, token, st, "", nil)
}

// Submit applies one step's form and moves the wizard forward or back
func (h *RegisterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			middleware.SetFlash(w, "error", "Invalid form data")
			http.Redirect(w, r, model.LoginPath(), http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			middleware.SetFlash(w, "error", "Invalid form data")
			http.Redirect(w, r, model.LoginPath(), http.StatusSeeOther)
			return
		}
	}

	owner := middleware.GetOwner(r.Context())
	token := r.FormValue("draft")
	id := model.BraceletID(strings.TrimSpace(r.FormValue("id")))

	st, err := h.wizard.Draft(token)
	if err != nil {
		h.draftExpired(w, r, id, r.FormValue("edit") == "true")
		return
	}

	var events []wizard.Event
	switch st.Step {
	case wizard.StepAccount:
		events = append(events, wizard.EditAccount{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		})
	case wizard.StepPersonal:
		personal := wizard.EditPersonal{
			FirstName:            r.FormValue("firstName"),
			LastName:             r.FormValue("lastName"),
			PrimaryContactName:   r.FormValue("contactName1"),
			PrimaryPhone:         r.FormValue("phone"),
			SecondaryContactName: r.FormValue("contactName2"),
			SecondaryPhone:       r.FormValue("phone2"),
			Email:                r.FormValue("email"),
			Message:              r.FormValue("message"),
		}
		photo, photoErr := h.readPhoto(r)
		if photoErr != nil {
			// Keep what was typed, but hold the step until the photo is fixed
			st, err = h.wizard.Apply(r.Context(), token, owner, personal)
			if err != nil {
				h.applyFailed(w, r, token, st, err)
				return
			}
			h.renderStep(w, r, http.StatusOK, token, st, "", map[string]string{
				"photo": "Please upload an image file (JPEG, PNG, GIF or WebP).",
			})
			return
		}
		personal.Photo = photo
		events = append(events, personal)
	}

	if r.FormValue("action") == "back" {
		events = append(events, wizard.Back{})
	} else {
		events = append(events, wizard.Next{})
	}

	st, err = h.wizard.Apply(r.Context(), token, owner, events...)
	if err != nil {
		h.applyFailed(w, r, token, st, err)
		return
	}

	switch st.Step {
	case wizard.StepSubmitted:
		if st.Mode == wizard.ModeCreate {
			middleware.SetFlash(w, "success", "Account created and bracelet activated!")
		} else {
			middleware.SetFlash(w, "success", "Changes saved.")
		}
		http.Redirect(w, r, model.ProfilePath(st.ID), http.StatusSeeOther)
	case wizard.StepExited:
		http.Redirect(w, r, model.ProfilePath(st.ID), http.StatusSeeOther)
	default:
		http.Redirect(w, r, draftPath(token, st), http.StatusSeeOther)
	}
}

// readPhoto returns the uploaded photo as a data URI, or "" if none was chosen
func (h *RegisterHandler) readPhoto(r *http.Request) (string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer func() { _ = file.Close() }()

	if header.Size == 0 && header.Filename == "" {
		return "", nil
	}
	return h.wizard.EncodePhoto(file)
}

func (h *RegisterHandler) beginFailed(w http.ResponseWriter, r *http.Request, id model.BraceletID, err error) {
	switch {
	case errors.Is(err, model.ErrMissingContextID):
		middleware.SetFlash(w, "error", "No bracelet ID detected.")
		http.Redirect(w, r, model.LoginPath(), http.StatusSeeOther)
	case errors.Is(err, model.ErrRejectedID):
		middleware.SetFlash(w, "error", rejectedNotice)
		http.Redirect(w, r, model.LoginPath(), http.StatusSeeOther)
	case errors.Is(err, model.ErrProfileExists):
		http.Redirect(w, r, model.ProfilePath(id), http.StatusSeeOther)
	case errors.Is(err, model.ErrNotOwner):
		middleware.SetFlash(w, "error", "Please log in to edit this profile.")
		http.Redirect(w, r, model.LoginPath(), http.StatusSeeOther)
	case errors.Is(err, model.ErrOrphanProfile):
		http.Redirect(w, r, model.RegisterPath(id), http.StatusSeeOther)
	default:
		h.logger.Error("failed to start wizard",
			slog.String("bracelet_id", string(id)),
			slog.String("error", err.Error()),
		)
		middleware.SetFlash(w, "error", "Something went wrong, please try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *RegisterHandler) applyFailed(w http.ResponseWriter, r *http.Request, token string, st wizard.State, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderStep(w, r, http.StatusOK, token, st, "", verr.FieldMessages())
	case errors.Is(err, wizard.ErrDraftNotFound):
		h.draftExpired(w, r, st.ID, st.Mode == wizard.ModeEdit)
	case errors.Is(err, model.ErrNotOwner):
		middleware.SetFlash(w, "error", "Please log in to edit this profile.")
		http.Redirect(w, r, model.LoginPath(), http.StatusSeeOther)
	case errors.Is(err, wizard.ErrInvalidTransition):
		http.Redirect(w, r, draftPath(token, st), http.StatusSeeOther)
	case errors.Is(err, model.ErrProfileExists):
		h.wizard.Discard(token)
		middleware.SetFlash(w, "error", "This bracelet is already activated.")
		http.Redirect(w, r, model.ProfilePath(st.ID), http.StatusSeeOther)
	default:
		h.logger.Error("failed to save profile",
			slog.String("bracelet_id", string(st.ID)),
			slog.String("error", err.Error()),
		)
		h.renderStep(w, r, http.StatusInternalServerError, token, st,
			"We could not save your profile, please try again.", nil)
	}
}

// draftExpired sends the user back to the start of the wizard they were in
func (h *RegisterHandler) draftExpired(w http.ResponseWriter, r *http.Request, id model.BraceletID, edit bool) {
	middleware.SetFlash(w, "error", "Your registration session expired, please start again.")
	switch {
	case id == "":
		http.Redirect(w, r, model.LoginPath(), http.StatusSeeOther)
	case edit:
		http.Redirect(w, r, model.EditPath(id), http.StatusSeeOther)
	default:
		http.Redirect(w, r, model.RegisterPath(id), http.StatusSeeOther)
	}
}

func (h *RegisterHandler) renderStep(w http.ResponseWriter, r *http.Request, status int, token string, st wizard.State, errorMsg string, fieldErrors map[string]string) {
	title := "Register"
	if st.Mode == wizard.ModeEdit {
		title = "Edit profile"
	}
	data := pages.RegisterData{
		PageData:    pageData(r, h.brand, title),
		Token:       token,
		State:       st,
		Error:       errorMsg,
		FieldErrors: fieldErrors,
	}
	render(w, r, h.logger, status, pages.Register(data))
}

// draftPath reopens a draft. The bracelet ID rides along so an expired
// draft can restart the same wizard.
func draftPath(token string, st wizard.State) string {
	q := url.Values{"draft": {token}, "id": {string(st.ID)}}
	if st.Mode == wizard.ModeEdit {
		q.Set("edit", "true")
	}
	return "/register?" + q.Encode()
}
