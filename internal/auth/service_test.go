package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/audit"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	users     map[string]*User
	usersByID map[int64]*User
	created   []*User
	nextID    int64
}

func newMockUserRepository() *mockUserRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	users := map[string]*User{
		"admin": {ID: 1, Username: "admin", Email: "admin@lab.example.edu", PasswordHash: string(hash), RoleID: internal.RoleAdministrator, Status: UserStatusActive},
		"sari":  {ID: 2, Username: "sari", Email: "sari@lab.example.edu", PasswordHash: string(hash), RoleID: internal.RoleStudentAssistant, Status: UserStatusActive},
		"gone":  {ID: 3, Username: "gone", Email: "gone@lab.example.edu", PasswordHash: string(hash), RoleID: internal.RoleFaculty, Status: UserStatusInactive},
	}

	byID := make(map[int64]*User)
	for _, u := range users {
		byID[u.ID] = u
	}

	return &mockUserRepository{users: users, usersByID: byID, nextID: 100}
}

func (m *mockUserRepository) GetByID(id int64) (*User, error) {
	if u, ok := m.usersByID[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) GetByUsername(username string) (*User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) ExistsByUsername(username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func (m *mockUserRepository) ExistsByEmail(email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) Create(user *User) error {
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	m.usersByID[user.ID] = user
	m.created = append(m.created, user)
	return nil
}

// Mock SessionRepository for testing
type mockSessionRepository struct {
	sessions map[string]*Session
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*Session)}
}

func (m *mockSessionRepository) Create(session *Session) error {
	m.sessions[session.Token] = session
	return nil
}

func (m *mockSessionRepository) GetByToken(token string) (*Session, error) {
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	return nil, nil
}

func (m *mockSessionRepository) Delete(token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepository) DeleteForUser(userID int64) error {
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *mockSessionRepository) SetFlash(token, message string) error {
	if s, ok := m.sessions[token]; ok {
		s.Flash = message
	}
	return nil
}

func (m *mockSessionRepository) PopFlash(token string) (string, error) {
	if s, ok := m.sessions[token]; ok {
		msg := s.Flash
		s.Flash = ""
		return msg, nil
	}
	return "", nil
}

// Mock audit recorder capturing entries in order
type mockAuditRecorder struct {
	entries []*audit.Entry
}

func (m *mockAuditRecorder) Record(entry *audit.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRecorder) ListRecent(limit int) ([]*audit.Entry, error) {
	return m.entries, nil
}

func (m *mockAuditRecorder) lastAction() string {
	if len(m.entries) == 0 {
		return ""
	}
	return m.entries[len(m.entries)-1].ActionType
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		users    *mockUserRepository
		sessions *mockSessionRepository
		recorder *mockAuditRecorder
	)

	ginkgo.BeforeEach(func() {
		users = newMockUserRepository()
		sessions = newMockSessionRepository()
		recorder = &mockAuditRecorder{}
		service = NewService(users, sessions, recorder, bcrypt.MinCost, time.Hour, testLogger)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.Context("with valid credentials", func() {
			ginkgo.It("creates a session and redirects to the role landing page", func() {
				result, err := service.Login(LoginDTO{Username: "admin", Password: "correct_password"}, "10.0.0.1")

				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(result.Token).To(gomega.HaveLen(64))
				gomega.Expect(result.RedirectPath).To(gomega.Equal("/admin"))
				gomega.Expect(sessions.sessions).To(gomega.HaveKey(result.Token))
				gomega.Expect(recorder.lastAction()).To(gomega.Equal(audit.ActionLogin))
			})

			ginkgo.It("sends a student assistant to the student landing page", func() {
				result, err := service.Login(LoginDTO{Username: "sari", Password: "correct_password"}, "10.0.0.1")

				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(result.RedirectPath).To(gomega.Equal("/student"))
			})
		})

		ginkgo.Context("with bad credentials", func() {
			ginkgo.It("returns the same error for a wrong password and an unknown username", func() {
				_, wrongPassword := service.Login(LoginDTO{Username: "admin", Password: "wrong"}, "10.0.0.1")
				_, unknownUser := service.Login(LoginDTO{Username: "nobody", Password: "whatever"}, "10.0.0.1")

				gomega.Expect(wrongPassword).To(gomega.HaveOccurred())
				gomega.Expect(unknownUser).To(gomega.HaveOccurred())
				gomega.Expect(wrongPassword.Error()).To(gomega.Equal(unknownUser.Error()))
			})

			ginkgo.It("audits failed attempts without binding them to a user id", func() {
				_, err := service.Login(LoginDTO{Username: "admin", Password: "wrong"}, "10.0.0.1")

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(recorder.entries).To(gomega.HaveLen(1))
				gomega.Expect(recorder.entries[0].ActionType).To(gomega.Equal(audit.ActionLoginFailed))
				gomega.Expect(recorder.entries[0].UserID).To(gomega.BeNil())
			})

			ginkgo.It("does not create a session", func() {
				_, err := service.Login(LoginDTO{Username: "admin", Password: "wrong"}, "10.0.0.1")

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(sessions.sessions).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("with an inactive account", func() {
			ginkgo.It("rejects the login even with the right password", func() {
				_, err := service.Login(LoginDTO{Username: "gone", Password: "correct_password"}, "10.0.0.1")

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(sessions.sessions).To(gomega.BeEmpty())
			})
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("destroys the session and audits the logout", func() {
			result, err := service.Login(LoginDTO{Username: "admin", Password: "correct_password"}, "10.0.0.1")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(service.Logout(result.Token, "10.0.0.1")).To(gomega.Succeed())
			gomega.Expect(sessions.sessions).To(gomega.BeEmpty())
			gomega.Expect(recorder.lastAction()).To(gomega.Equal(audit.ActionLogout))
		})

		ginkgo.It("is a no-op without a live session", func() {
			gomega.Expect(service.Logout("", "10.0.0.1")).To(gomega.Succeed())
			gomega.Expect(service.Logout("not-a-token", "10.0.0.1")).To(gomega.Succeed())
			gomega.Expect(recorder.entries).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Register", func() {
		validRegistration := RegisterDTO{
			Username:        "newuser",
			Email:           "newuser@lab.example.edu",
			Password:        "secret123",
			ConfirmPassword: "secret123",
			RoleID:          internal.RoleFaculty,
		}

		ginkgo.It("creates an active account without logging it in", func() {
			id, err := service.Register(validRegistration, "10.0.0.1")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(id).NotTo(gomega.BeZero())
			gomega.Expect(users.created).To(gomega.HaveLen(1))
			gomega.Expect(users.created[0].Status).To(gomega.Equal(UserStatusActive))
			gomega.Expect(sessions.sessions).To(gomega.BeEmpty())
			gomega.Expect(recorder.lastAction()).To(gomega.Equal(audit.ActionRegistration))
		})

		ginkgo.It("never stores the plain password", func() {
			_, err := service.Register(validRegistration, "10.0.0.1")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(users.created[0].PasswordHash).NotTo(gomega.Equal("secret123"))
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(users.created[0].PasswordHash), []byte("secret123"))).To(gomega.Succeed())
		})

		ginkgo.It("rejects a taken username before checking the email", func() {
			dto := validRegistration
			dto.Username = "admin"
			dto.Email = "admin@lab.example.edu" // both taken

			_, err := service.Register(dto, "10.0.0.1")

			gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateUsername))
		})

		ginkgo.It("rejects a taken email", func() {
			dto := validRegistration
			dto.Email = "sari@lab.example.edu"

			_, err := service.Register(dto, "10.0.0.1")

			gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateEmail))
		})

		ginkgo.It("refuses to create an administrator account", func() {
			dto := validRegistration
			dto.RoleID = internal.RoleAdministrator

			_, err := service.Register(dto, "10.0.0.1")

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			gomega.Expect(users.created).To(gomega.BeEmpty())
		})

		ginkgo.It("rejects mismatched password confirmation", func() {
			dto := validRegistration
			dto.ConfirmPassword = "different"

			_, err := service.Register(dto, "10.0.0.1")

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(users.created).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("ResolveSession", func() {
		ginkgo.It("returns the identity for a live session", func() {
			result, err := service.Login(LoginDTO{Username: "admin", Password: "correct_password"}, "10.0.0.1")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			identity, err := service.ResolveSession(result.Token)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(identity).NotTo(gomega.BeNil())
			gomega.Expect(identity.UserID).To(gomega.Equal(int64(1)))
			gomega.Expect(identity.Role).To(gomega.Equal(internal.RoleAdministrator))
		})

		ginkgo.It("treats a missing token as anonymous", func() {
			identity, err := service.ResolveSession("")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(identity).To(gomega.BeNil())
		})

		ginkgo.It("destroys an expired session and resolves to anonymous", func() {
			sessions.sessions["stale"] = &Session{
				Token:     "stale",
				UserID:    1,
				ExpiresAt: time.Now().Add(-time.Minute),
			}

			identity, err := service.ResolveSession("stale")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(identity).To(gomega.BeNil())
			gomega.Expect(sessions.sessions).NotTo(gomega.HaveKey("stale"))
		})

		ginkgo.It("destroys the session of a deactivated user", func() {
			result, err := service.Login(LoginDTO{Username: "sari", Password: "correct_password"}, "10.0.0.1")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			users.usersByID[2].Status = UserStatusInactive

			identity, err := service.ResolveSession(result.Token)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(identity).To(gomega.BeNil())
			gomega.Expect(sessions.sessions).To(gomega.BeEmpty())
		})
	})
})
