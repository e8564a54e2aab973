package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/transport"
)

// stubAuthService returns whatever the spec configures, so handler tests
// stay independent of the real service rules.
type stubAuthService struct {
	loginResult *LoginResult
	loginErr    error
	registerID  int64
	registerErr error
}

func (s *stubAuthService) Login(dto LoginDTO, ip string) (*LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResult, nil
}

func (s *stubAuthService) Logout(token, ip string) error { return nil }

func (s *stubAuthService) Register(dto RegisterDTO, ip string) (int64, error) {
	if s.registerErr != nil {
		return 0, s.registerErr
	}
	return s.registerID, nil
}

func (s *stubAuthService) ResolveSession(token string) (*internal.Identity, error) {
	return nil, nil
}

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		svc     *stubAuthService
		handler *Handler
	)

	formPost := func(path string, form url.Values) *http.Request {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	registration := url.Values{
		"username":         {"newuser"},
		"email":            {"newuser@lab.example.edu"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
		"role":             {"2"},
	}

	ginkgo.BeforeEach(func() {
		renderer, err := transport.NewRenderer()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		base := transport.NewBaseHandler(lg, renderer, nil)
		svc = &stubAuthService{registerID: 42}
		handler = NewHandler(base, svc, internal.SessionConfig{CookieName: "labtrack_session", Path: "/"})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("redirects to the login page after a successful registration", func() {
			rec := httptest.NewRecorder()

			handler.Register(rec, formPost("/register", registration))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/login?registered=1"))
		})

		ginkgo.It("renders a generic failure for an unexpected service error", func() {
			svc.registerErr = errors.New("connection reset")
			rec := httptest.NewRecorder()

			handler.Register(rec, formPost("/register", registration))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("Something went wrong"))
			gomega.Expect(rec.Body.String()).NotTo(gomega.ContainSubstring("connection reset"))
		})
	})

	ginkgo.Describe("ShowLogin", func() {
		ginkgo.It("greets a freshly registered visitor", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/login?registered=1", nil)

			handler.ShowLogin(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("Registration successful"))
		})

		ginkgo.It("shows a plain login page otherwise", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/login", nil)

			handler.ShowLogin(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).NotTo(gomega.ContainSubstring("Registration successful"))
		})
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("sets the session cookie and redirects to the landing page", func() {
			svc.loginResult = &LoginResult{
				Token:        "token-1",
				ExpiresAt:    time.Now().Add(time.Hour),
				RedirectPath: "/faculty",
				UserID:       2,
			}
			rec := httptest.NewRecorder()

			handler.Login(rec, formPost("/login", url.Values{"username": {"dr.hartono"}, "password": {"secret123"}}))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/faculty"))
			cookies := rec.Result().Cookies()
			gomega.Expect(cookies).To(gomega.HaveLen(1))
			gomega.Expect(cookies[0].Name).To(gomega.Equal("labtrack_session"))
			gomega.Expect(cookies[0].Value).To(gomega.Equal("token-1"))
		})

		ginkgo.It("renders a generic failure for an unexpected service error", func() {
			svc.loginErr = errors.New("connection reset")
			rec := httptest.NewRecorder()

			handler.Login(rec, formPost("/login", url.Values{"username": {"dr.hartono"}, "password": {"secret123"}}))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("Something went wrong"))
			gomega.Expect(rec.Body.String()).NotTo(gomega.ContainSubstring("connection reset"))
		})
	})
})
