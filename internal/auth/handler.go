package auth

import (
	"net/http"
	"strconv"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Cookie  internal.SessionConfig
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI, cookie internal.SessionConfig) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     svc,
		Cookie:      cookie,
	}
}

func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if internal.IsLoggedIn(r.Context()) {
		role, _ := internal.CurrentRole(r.Context())
		h.Redirect(w, r, internal.LandingPath(role))
		return
	}
	data := map[string]any{}
	if r.URL.Query().Get("registered") == "1" {
		data["Flash"] = "Registration successful. Please sign in."
	}
	h.Render(w, r, "login", data)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Render(w, r, "login", map[string]any{"Errors": []string{"invalid form submission"}})
		return
	}

	dto := LoginDTO{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	result, err := h.Service.Login(dto, h.ClientIP(r))
	if err != nil {
		appErr, ok := internal.IsAppError(err)
		if !ok {
			appErr = internal.NewInternalError("login failed", err)
		}
		h.RenderStatus(w, r, appErr.StatusCode, "login", map[string]any{
			"Errors":   []string{appErr.UserMessage()},
			"Username": dto.Username,
		})
		return
	}

	http.SetCookie(w, h.sessionCookie(result.Token, result.ExpiresAt))
	h.Redirect(w, r, result.RedirectPath)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(r)
	if err := h.Service.Logout(token, h.ClientIP(r)); err != nil {
		h.Logger.Error("logout failed", "error", err)
	}

	http.SetCookie(w, h.expiredCookie())
	h.Redirect(w, r, "/login")
}

func (h *Handler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, "register", nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Render(w, r, "register", map[string]any{"Errors": []string{"invalid form submission"}})
		return
	}

	roleID, _ := strconv.ParseInt(r.PostFormValue("role"), 10, 64)
	dto := RegisterDTO{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		RoleID:          internal.Role(roleID),
	}

	if _, err := h.Service.Register(dto, h.ClientIP(r)); err != nil {
		appErr, ok := internal.IsAppError(err)
		if !ok {
			appErr = internal.NewInternalError("registration failed", err)
		}
		// re-render with the submitted values so nothing is lost
		h.RenderStatus(w, r, appErr.StatusCode, "register", map[string]any{
			"Errors":   registerErrors(appErr),
			"Username": dto.Username,
			"Email":    dto.Email,
			"RoleID":   dto.RoleID,
		})
		return
	}

	// the flash store is session-backed and registration does not log
	// the user in, so the redirect signals success via the query string
	h.Redirect(w, r, "/login?registered=1")
}

func registerErrors(appErr *internal.AppError) []string {
	if details, ok := appErr.Details.(internal.ValidationErrors); ok {
		return details.Messages()
	}
	return []string{appErr.UserMessage()}
}

// SessionMiddleware resolves the current identity once per request and
// stores it in the context. Handlers never re-query the user row.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)

		identity, err := h.Service.ResolveSession(token)
		if err != nil {
			h.Logger.Error("session resolution failed", "error", err)
		}

		if identity == nil {
			if token != "" {
				// stale cookie for a dead session
				http.SetCookie(w, h.expiredCookie())
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(h.Cookie.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.Cookie.CookieName,
		Value:    token,
		Path:     h.Cookie.Path,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.Cookie.CookieName,
		Value:    "",
		Path:     h.Cookie.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
