package rest

import (
	"net/http"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/transport"
)

// PageHandler serves the landing pages. Each role gets its own path so the
// post-login redirect can differ, but they share one dashboard template.
type PageHandler struct {
	*transport.BaseHandler
}

func NewPageHandler(base *transport.BaseHandler) *PageHandler {
	return &PageHandler{BaseHandler: base}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if role, ok := internal.CurrentRole(r.Context()); ok {
		h.Redirect(w, r, internal.LandingPath(role))
		return
	}
	h.Render(w, r, "dashboard", nil)
}

func (h *PageHandler) Landing(heading string, role internal.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// a user landing on another role's page is just sent to their own
		if current, ok := internal.CurrentRole(r.Context()); ok && current != role {
			h.Redirect(w, r, internal.LandingPath(current))
			return
		}
		h.Render(w, r, "dashboard", map[string]any{
			"Heading": heading,
		})
	}
}

func (h *PageHandler) AccessDenied(w http.ResponseWriter, r *http.Request) {
	h.RenderStatus(w, r, http.StatusForbidden, "access_denied", nil)
}
