package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/transport/middleware"
)

func TestMiddleware(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Transport Middleware Suite")
}

var _ = ginkgo.Describe("capability gates", func() {
	var handlerRan bool

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
		w.WriteHeader(http.StatusOK)
	})

	requestAs := func(identity *internal.Identity) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/equipment", nil)
		if identity != nil {
			req = req.WithContext(internal.ContextWithIdentity(req.Context(), identity))
		}
		return req
	}

	ginkgo.BeforeEach(func() {
		handlerRan = false
	})

	ginkgo.Describe("RequireAuth", func() {
		ginkgo.It("sends anonymous visitors to the login page", func() {
			rec := httptest.NewRecorder()

			middleware.RequireAuth(inner).ServeHTTP(rec, requestAs(nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/login"))
			gomega.Expect(handlerRan).To(gomega.BeFalse())
		})

		ginkgo.It("passes logged-in users through", func() {
			rec := httptest.NewRecorder()
			identity := &internal.Identity{UserID: 20, Role: internal.RoleStudentAssistant}

			middleware.RequireAuth(inner).ServeHTTP(rec, requestAs(identity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(handlerRan).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("RequireCapability", func() {
		gate := middleware.RequireCapability(internal.CapManageEquipment)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		ginkgo.It("redirects a student assistant to access-denied before the handler runs", func() {
			rec := httptest.NewRecorder()
			identity := &internal.Identity{UserID: 20, Role: internal.RoleStudentAssistant}

			middleware.RequireCapability(internal.CapManageEquipment)(inner).ServeHTTP(rec, requestAs(identity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/access-denied"))
			gomega.Expect(handlerRan).To(gomega.BeFalse())
		})

		ginkgo.It("lets a technician through an equipment-management gate", func() {
			rec := httptest.NewRecorder()
			identity := &internal.Identity{UserID: 7, Role: internal.RoleLabTechnician}

			gate.ServeHTTP(rec, requestAs(identity))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("treats a missing identity as anonymous", func() {
			rec := httptest.NewRecorder()

			gate.ServeHTTP(rec, requestAs(nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/login"))
		})
	})
})
