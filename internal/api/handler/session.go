package handler

import (
	"net/http"

	"github.com/mcoot/ofelia/internal/api/apierr"
	"github.com/mcoot/ofelia/internal/api/middleware"
	"github.com/mcoot/ofelia/internal/api/request"
	"github.com/mcoot/ofelia/internal/api/response"
	"github.com/mcoot/ofelia/internal/services/auth"
)

// SessionHandler handles owner login and logout
type SessionHandler struct {
	authService *auth.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService *auth.Service) *SessionHandler {
	return &SessionHandler{
		authService: authService,
	}
}

// Login handles POST /api/v1/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.InvalidateSession(middleware.ExtractToken(r))
	response.NoContent(w)
}
