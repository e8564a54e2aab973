package user

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(base *transport.BaseHandler, svc *Service) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Status: r.URL.Query().Get("status")}
	if roleValue := r.URL.Query().Get("role"); roleValue != "" {
		if roleID, err := strconv.ParseInt(roleValue, 10, 64); err == nil {
			filter.Role = internal.Role(roleID)
		}
	}

	users, err := h.Service.List(filter)
	if err != nil {
		h.HandleError(w, r, err, "/admin")
		return
	}

	h.Render(w, r, "user_list", map[string]any{
		"Users":  users,
		"Filter": filter,
	})
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/users", "User not found")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, "/users", "Invalid form submission")
		return
	}
	roleID, _ := strconv.ParseInt(r.PostFormValue("role"), 10, 64)

	identity, _ := internal.IdentityFromContext(r.Context())
	if err := h.Service.ChangeRole(identity, id, internal.Role(roleID)); err != nil {
		h.HandleError(w, r, err, "/users")
		return
	}

	h.RedirectWithFlash(w, r, "/users", "Role updated")
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Deactivate, "User deactivated")
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Activate, "User activated")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(*internal.Identity, int64) error, success string) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/users", "User not found")
		return
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	if err := op(identity, id); err != nil {
		h.HandleError(w, r, err, "/users")
		return
	}

	h.RedirectWithFlash(w, r, "/users", success)
}
