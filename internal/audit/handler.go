package audit

import (
	"net/http"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/transport"
)

const recentLimit = 100

type Handler struct {
	*transport.BaseHandler
	Log Recorder
}

func NewHandler(base *transport.BaseHandler, log Recorder) *Handler {
	return &Handler{BaseHandler: base, Log: log}
}

// List shows the most recent audit entries, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Log.ListRecent(recentLimit)
	if err != nil {
		h.HandleError(w, r, internal.NewInternalError("failed to load audit log", err), "/")
		return
	}

	h.Render(w, r, "audit_list", map[string]any{
		"Entries": entries,
	})
}
