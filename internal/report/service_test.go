package report

import (
	"io"
	"log/slog"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/maulanaar/labtrack/internal/borrowing"
	"github.com/maulanaar/labtrack/internal/equipment"
	"github.com/maulanaar/labtrack/internal/maintenance"
)

type stubMaintenanceReader struct {
	requests []*maintenance.MaintenanceRequest
}

func (s *stubMaintenanceReader) List(maintenance.ListFilter) ([]*maintenance.MaintenanceRequest, error) {
	return s.requests, nil
}

type stubBorrowingReader struct {
	requests []*borrowing.BorrowingRequest
}

func (s *stubBorrowingReader) List(borrowing.ListFilter) ([]*borrowing.BorrowingRequest, error) {
	return s.requests, nil
}

type stubEquipmentReader struct {
	items []*equipment.Equipment
}

func (s *stubEquipmentReader) List(equipment.ListFilter) ([]*equipment.Equipment, error) {
	return s.items, nil
}

var _ = ginkgo.Describe("ReportService", func() {
	var (
		service *Service
		maint   *stubMaintenanceReader
		borrow  *stubBorrowingReader
		stock   *stubEquipmentReader
	)

	at := func(offset int) time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	ginkgo.BeforeEach(func() {
		started := at(1)
		completed := at(3)
		maint = &stubMaintenanceReader{requests: []*maintenance.MaintenanceRequest{
			{ID: 1, Status: maintenance.StatusCompleted, ReportedAt: at(0), StartedAt: &started, CompletedAt: &completed},
			{ID: 2, Status: maintenance.StatusPending, ReportedAt: at(10)},
		}}
		borrow = &stubBorrowingReader{requests: []*borrowing.BorrowingRequest{
			{ID: 1, Status: borrowing.StatusApproved, RequestedAt: at(0)},
			{ID: 2, Status: borrowing.StatusPending, RequestedAt: at(10)},
		}}
		stock = &stubEquipmentReader{items: []*equipment.Equipment{
			{ID: 1, Category: "optics", Status: equipment.StatusAvailable},
			{ID: 2, Category: "optics", Status: equipment.StatusBorrowed},
			{ID: 3, Category: "av", Status: equipment.StatusAvailable},
		}}
		service = NewService(maint, borrow, stock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.It("aggregates everything without a date range", func() {
		summary, err := service.Summary(DateRange{})

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(summary.Maintenance.Statuses.Total).To(gomega.Equal(2))
		gomega.Expect(summary.Borrowing.Statuses.Total).To(gomega.Equal(2))
		gomega.Expect(summary.Equipment.Statuses.Total).To(gomega.Equal(3))
		gomega.Expect(summary.Equipment.Categories).To(gomega.Equal([]KeyCount{
			{Key: "optics", Count: 2},
			{Key: "av", Count: 1},
		}))
	})

	ginkgo.It("computes the average repair time from started/completed pairs", func() {
		summary, err := service.Summary(DateRange{})

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(summary.Maintenance.RepairTime.Measured).To(gomega.Equal(1))
		gomega.Expect(summary.Maintenance.RepairTime.AverageDays).To(gomega.Equal(2.0))
	})

	ginkgo.It("narrows maintenance and borrowing by submission date", func() {
		summary, err := service.Summary(DateRange{From: at(5), To: at(15)})

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(summary.Maintenance.Statuses.Total).To(gomega.Equal(1))
		gomega.Expect(summary.Borrowing.Statuses.Total).To(gomega.Equal(1))
		// equipment is a point-in-time inventory, never date filtered
		gomega.Expect(summary.Equipment.Statuses.Total).To(gomega.Equal(3))
	})

	ginkgo.It("yields explicit no-data summaries for an empty window", func() {
		summary, err := service.Summary(DateRange{From: at(100), To: at(200)})

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(summary.Maintenance.Statuses.HasData).To(gomega.BeFalse())
		gomega.Expect(summary.Borrowing.Statuses.HasData).To(gomega.BeFalse())
		gomega.Expect(summary.Maintenance.RepairTime.HasData()).To(gomega.BeFalse())
	})
})
