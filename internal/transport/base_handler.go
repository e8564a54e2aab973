package transport

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/pkg/logger"
)

// FlashStore persists one-shot notification messages across the
// redirect-after-POST boundary. Backed by the session row.
type FlashStore interface {
	SetFlash(token, message string) error
	PopFlash(token string) (string, error)
}

// BaseHandler provides rendering, redirect, and error translation shared by
// all page handlers.
type BaseHandler struct {
	Logger   *slog.Logger
	Renderer *Renderer
	Flash    FlashStore
}

func NewBaseHandler(lg *slog.Logger, renderer *Renderer, flash FlashStore) *BaseHandler {
	if lg == nil {
		lg = logger.L()
	}
	return &BaseHandler{Logger: lg, Renderer: renderer, Flash: flash}
}

// Render writes an HTML page. The current identity and any pending flash
// message are injected alongside the handler's data.
func (h *BaseHandler) Render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	h.RenderStatus(w, r, http.StatusOK, page, data)
}

func (h *BaseHandler) RenderStatus(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	data["Identity"] = identity

	if _, ok := data["Flash"]; !ok && identity != nil && h.Flash != nil {
		if msg, err := h.Flash.PopFlash(identity.SessionToken); err == nil && msg != "" {
			data["Flash"] = msg
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.Renderer.Render(w, page, data); err != nil {
		h.Logger.Error("failed to render page", "page", page, "error", err)
	}
}

// Redirect issues the post-POST redirect.
func (h *BaseHandler) Redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (h *BaseHandler) RedirectWithFlash(w http.ResponseWriter, r *http.Request, path, message string) {
	if identity, ok := internal.IdentityFromContext(r.Context()); ok && h.Flash != nil {
		if err := h.Flash.SetFlash(identity.SessionToken, message); err != nil {
			h.Logger.Error("failed to set flash message", "error", err)
		}
	}
	h.Redirect(w, r, path)
}

// HandleError translates a service error into a user response. Internal
// causes are logged; the user only ever sees the sanitized message.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error, fallbackPath string) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("unexpected error", err)
	}

	switch appErr.Type {
	case internal.ErrorTypeForbidden:
		h.Logger.Warn("access denied", "path", r.URL.Path, "error", appErr.Message)
		h.Redirect(w, r, "/access-denied")
	case internal.ErrorTypeUnauthorized:
		h.Redirect(w, r, "/login")
	case internal.ErrorTypeInternal:
		h.Logger.Error("request failed", "path", r.URL.Path, "error", appErr.Error())
		h.RedirectWithFlash(w, r, fallbackPath, appErr.UserMessage())
	default:
		h.RedirectWithFlash(w, r, fallbackPath, appErr.UserMessage())
	}
}

// ClientIP extracts the request origin, trusting X-Forwarded-For when set.
func (h *BaseHandler) ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// PathID parses a numeric id from a URL parameter value.
func PathID(value string) (int64, error) {
	return strconv.ParseInt(value, 10, 64)
}
