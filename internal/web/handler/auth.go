package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/services/auth"
	"github.com/mcoot/ofelia/internal/web/middleware"
	"github.com/mcoot/ofelia/internal/web/templates/pages"
)

// AuthHandler handles owner login and logout
type AuthHandler struct {
	authService *auth.Service
	brand       string
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, brand string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		brand:       brand,
		logger:      logger,
	}
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "Invalid form data", "", nil)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	session, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		var verr *model.ValidationError
		switch {
		case errors.As(err, &verr):
			h.renderLoginError(w, r, "Please fill in username and password.", username, verr.FieldMessages())
		case errors.Is(err, model.ErrInvalidCredentials):
			h.renderLoginError(w, r, "Incorrect username or password.", username, nil)
		default:
			h.logger.Error("login failed", slog.String("error", err.Error()))
			h.renderLoginError(w, r, "Something went wrong, please try again.", username, nil)
		}
		return
	}

	// One identity per browser session
	if old := middleware.SessionToken(r); old != "" {
		h.authService.InvalidateSession(old)
	}

	middleware.SetSessionCookie(w, session.Token)
	middleware.SetFlash(w, "success", "Welcome back!")
	http.Redirect(w, r, model.ProfilePath(session.BraceletID), http.StatusSeeOther)
}

// Logout ends the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		h.authService.InvalidateSession(token)
	}
	middleware.ClearSessionCookie(w)

	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, username string, fieldErrors map[string]string) {
	data := pages.LoginData{
		PageData:    pageData(r, h.brand, "Log in"),
		Username:    username,
		Error:       errorMsg,
		FieldErrors: fieldErrors,
	}
	render(w, r, h.logger, http.StatusOK, pages.Login(data))
}
