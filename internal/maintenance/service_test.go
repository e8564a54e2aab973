package maintenance

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/audit"
	"github.com/maulanaar/labtrack/internal/equipment"
)

func TestMaintenance(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Maintenance Module Suite")
}

type mockRepository struct {
	requests    map[int64]*MaintenanceRequest
	nextID      int64
	assignCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{requests: make(map[int64]*MaintenanceRequest), nextID: 0}
}

func (m *mockRepository) CreateWithEquipmentFlag(req *MaintenanceRequest) error {
	m.nextID++
	req.ID = m.nextID
	m.requests[req.ID] = req
	return nil
}

func (m *mockRepository) GetByID(id int64) (*MaintenanceRequest, error) {
	if req, ok := m.requests[id]; ok {
		return req, nil
	}
	return nil, errors.New("not found")
}

func (m *mockRepository) List(filter ListFilter) ([]*MaintenanceRequest, error) {
	var out []*MaintenanceRequest
	for _, req := range m.requests {
		if filter.ReportedBy != 0 && req.ReportedBy != filter.ReportedBy {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (m *mockRepository) Assign(id, technicianID int64, startedAt time.Time) error {
	m.assignCalls++
	req := m.requests[id]
	req.AssignedTo = &technicianID
	req.Status = StatusInProgress
	req.StartedAt = &startedAt
	return nil
}

func (m *mockRepository) CloseWithEquipmentRestore(req *MaintenanceRequest) error {
	m.requests[req.ID] = req
	return nil
}

func (m *mockRepository) Delete(id int64) error {
	delete(m.requests, id)
	return nil
}

type mockEquipmentReader struct {
	items map[int64]*equipment.Equipment
}

func (m *mockEquipmentReader) GetByID(id int64) (*equipment.Equipment, error) {
	if item, ok := m.items[id]; ok {
		return item, nil
	}
	return nil, errors.New("not found")
}

type mockUserDirectory struct {
	roles map[int64]internal.Role
}

func (m *mockUserDirectory) RoleOf(userID int64) (internal.Role, error) {
	if role, ok := m.roles[userID]; ok {
		return role, nil
	}
	return 0, errors.New("not found")
}

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

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func identityFor(userID int64, role internal.Role) *internal.Identity {
	return &internal.Identity{UserID: userID, Username: "someone", Role: role}
}

var _ = ginkgo.Describe("MaintenanceService", func() {
	var (
		service   *Service
		repo      *mockRepository
		inventory *mockEquipmentReader
		directory *mockUserDirectory
		recorder  *mockAuditRecorder

		technician *internal.Identity
		student    *internal.Identity
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		inventory = &mockEquipmentReader{items: map[int64]*equipment.Equipment{
			10: {ID: 10, Name: "Oscilloscope", Status: equipment.StatusAvailable},
		}}
		directory = &mockUserDirectory{roles: map[int64]internal.Role{
			7:  internal.RoleLabTechnician,
			20: internal.RoleStudentAssistant,
		}}
		recorder = &mockAuditRecorder{}
		service = NewService(repo, inventory, directory, recorder, testLogger)

		technician = identityFor(7, internal.RoleLabTechnician)
		student = identityFor(20, internal.RoleStudentAssistant)
	})

	ginkgo.Describe("Report", func() {
		ginkgo.It("files a pending request for existing equipment", func() {
			req, err := service.Report(student, ReportMaintenanceDTO{EquipmentID: 10, Description: "screen flickers"})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(req.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(req.ReportedBy).To(gomega.Equal(int64(20)))
		})

		ginkgo.It("rejects reports against unknown equipment", func() {
			_, err := service.Report(student, ReportMaintenanceDTO{EquipmentID: 999, Description: "broken"})

			gomega.Expect(err).To(gomega.Equal(equipment.ErrNotFound))
		})
	})

	ginkgo.Describe("Assign", func() {
		var requestID int64

		ginkgo.BeforeEach(func() {
			req, err := service.Report(student, ReportMaintenanceDTO{EquipmentID: 10, Description: "screen flickers"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			requestID = req.ID
		})

		ginkgo.It("moves a pending request to in_progress under the assignee", func() {
			err := service.Assign(technician, requestID, AssignMaintenanceDTO{TechnicianID: 7})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			req := repo.requests[requestID]
			gomega.Expect(req.Status).To(gomega.Equal(StatusInProgress))
			gomega.Expect(*req.AssignedTo).To(gomega.Equal(int64(7)))
			gomega.Expect(req.StartedAt).NotTo(gomega.BeNil())
		})

		ginkgo.It("audits the assignment", func() {
			gomega.Expect(service.Assign(technician, requestID, AssignMaintenanceDTO{TechnicianID: 7})).To(gomega.Succeed())

			gomega.Expect(recorder.entries).To(gomega.HaveLen(1))
			gomega.Expect(recorder.entries[0].ActionType).To(gomega.Equal(audit.ActionMaintenanceAssigned))
		})

		ginkgo.It("denies a student assistant before touching the request", func() {
			err := service.Assign(student, requestID, AssignMaintenanceDTO{TechnicianID: 7})

			gomega.Expect(err).To(gomega.Equal(internal.ErrAccessDenied))
			gomega.Expect(repo.assignCalls).To(gomega.BeZero())
			gomega.Expect(repo.requests[requestID].Status).To(gomega.Equal(StatusPending))
		})

		ginkgo.It("rejects assigning the same request twice", func() {
			gomega.Expect(service.Assign(technician, requestID, AssignMaintenanceDTO{TechnicianID: 7})).To(gomega.Succeed())

			err := service.Assign(technician, requestID, AssignMaintenanceDTO{TechnicianID: 7})

			gomega.Expect(err).To(gomega.Equal(ErrAlreadyAssigned))
			gomega.Expect(repo.assignCalls).To(gomega.Equal(1))
		})

		ginkgo.It("refuses an assignee who cannot manage maintenance", func() {
			err := service.Assign(technician, requestID, AssignMaintenanceDTO{TechnicianID: 20})

			gomega.Expect(err).To(gomega.Equal(ErrNotTechnician))
			gomega.Expect(repo.requests[requestID].Status).To(gomega.Equal(StatusPending))
		})
	})

	ginkgo.Describe("Complete", func() {
		var requestID int64

		ginkgo.BeforeEach(func() {
			req, err := service.Report(student, ReportMaintenanceDTO{EquipmentID: 10, Description: "screen flickers"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			requestID = req.ID
			gomega.Expect(service.Assign(technician, requestID, AssignMaintenanceDTO{TechnicianID: 7})).To(gomega.Succeed())
		})

		ginkgo.It("lets the assigned technician close the request", func() {
			gomega.Expect(service.Complete(technician, requestID)).To(gomega.Succeed())

			req := repo.requests[requestID]
			gomega.Expect(req.Status).To(gomega.Equal(StatusCompleted))
			gomega.Expect(req.CompletedAt).NotTo(gomega.BeNil())
		})

		ginkgo.It("denies the reporter", func() {
			gomega.Expect(service.Complete(student, requestID)).To(gomega.Equal(internal.ErrAccessDenied))
		})

		ginkgo.It("rejects completing a request twice", func() {
			gomega.Expect(service.Complete(technician, requestID)).To(gomega.Succeed())
			gomega.Expect(service.Complete(technician, requestID)).To(gomega.Equal(ErrInvalidStatus))
		})
	})

	ginkgo.Describe("Cancel", func() {
		var requestID int64

		ginkgo.BeforeEach(func() {
			req, err := service.Report(student, ReportMaintenanceDTO{EquipmentID: 10, Description: "screen flickers"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			requestID = req.ID
		})

		ginkgo.It("lets the reporter cancel while pending", func() {
			gomega.Expect(service.Cancel(student, requestID)).To(gomega.Succeed())
			gomega.Expect(repo.requests[requestID].Status).To(gomega.Equal(StatusCancelled))
		})

		ginkgo.It("denies the reporter once work has started", func() {
			gomega.Expect(service.Assign(technician, requestID, AssignMaintenanceDTO{TechnicianID: 7})).To(gomega.Succeed())

			gomega.Expect(service.Cancel(student, requestID)).To(gomega.Equal(internal.ErrAccessDenied))
		})

		ginkgo.It("lets a manager cancel in-progress work", func() {
			gomega.Expect(service.Assign(technician, requestID, AssignMaintenanceDTO{TechnicianID: 7})).To(gomega.Succeed())

			gomega.Expect(service.Cancel(technician, requestID)).To(gomega.Succeed())
			gomega.Expect(repo.requests[requestID].Status).To(gomega.Equal(StatusCancelled))
		})

		ginkgo.It("denies strangers", func() {
			stranger := identityFor(99, internal.RoleFaculty)
			gomega.Expect(service.Cancel(stranger, requestID)).To(gomega.Equal(internal.ErrAccessDenied))
		})
	})

	ginkgo.Describe("Delete", func() {
		var requestID int64

		ginkgo.BeforeEach(func() {
			req, err := service.Report(student, ReportMaintenanceDTO{EquipmentID: 10, Description: "screen flickers"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			requestID = req.ID
		})

		ginkgo.It("refuses to delete an open request", func() {
			gomega.Expect(service.Delete(student, requestID)).To(gomega.Equal(ErrInvalidStatus))
		})

		ginkgo.It("lets the reporter delete their completed request", func() {
			gomega.Expect(service.Assign(technician, requestID, AssignMaintenanceDTO{TechnicianID: 7})).To(gomega.Succeed())
			gomega.Expect(service.Complete(technician, requestID)).To(gomega.Succeed())

			gomega.Expect(service.Delete(student, requestID)).To(gomega.Succeed())
			gomega.Expect(repo.requests).NotTo(gomega.HaveKey(requestID))
		})

		ginkgo.It("denies the reporter deleting a cancelled request", func() {
			gomega.Expect(service.Cancel(student, requestID)).To(gomega.Succeed())

			gomega.Expect(service.Delete(student, requestID)).To(gomega.Equal(internal.ErrAccessDenied))
			gomega.Expect(repo.requests).To(gomega.HaveKey(requestID))
		})

		ginkgo.It("lets a manager delete a cancelled request", func() {
			gomega.Expect(service.Cancel(student, requestID)).To(gomega.Succeed())

			gomega.Expect(service.Delete(technician, requestID)).To(gomega.Succeed())
			gomega.Expect(repo.requests).NotTo(gomega.HaveKey(requestID))
		})
	})

	ginkgo.Describe("ListFor", func() {
		ginkgo.BeforeEach(func() {
			_, err := service.Report(student, ReportMaintenanceDTO{EquipmentID: 10, Description: "screen flickers"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = service.Report(technician, ReportMaintenanceDTO{EquipmentID: 10, Description: "probe missing"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("scopes plain users to their own reports", func() {
			requests, err := service.ListFor(student, ListFilter{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(requests).To(gomega.HaveLen(1))
			gomega.Expect(requests[0].ReportedBy).To(gomega.Equal(int64(20)))
		})

		ginkgo.It("shows everything to users who can view all maintenance", func() {
			requests, err := service.ListFor(technician, ListFilter{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(requests).To(gomega.HaveLen(2))
		})
	})
})
