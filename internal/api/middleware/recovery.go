package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/ofelia/internal/api/apierr"
	"github.com/mcoot/ofelia/internal/metrics"
	"github.com/mcoot/ofelia/internal/middleware"
)

// Recovery answers handler panics with a JSON INTERNAL_ERROR body
func Recovery(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, m, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
