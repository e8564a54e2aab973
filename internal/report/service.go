package report

import (
	"log/slog"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/borrowing"
	"github.com/maulanaar/labtrack/internal/equipment"
	"github.com/maulanaar/labtrack/internal/maintenance"
)

type MaintenanceReader interface {
	List(filter maintenance.ListFilter) ([]*maintenance.MaintenanceRequest, error)
}

type BorrowingReader interface {
	List(filter borrowing.ListFilter) ([]*borrowing.BorrowingRequest, error)
}

type EquipmentReader interface {
	List(filter equipment.ListFilter) ([]*equipment.Equipment, error)
}

// DateRange bounds a report; zero values mean unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (dr DateRange) contains(t time.Time) bool {
	if !dr.From.IsZero() && t.Before(dr.From) {
		return false
	}
	if !dr.To.IsZero() && t.After(dr.To) {
		return false
	}
	return true
}

type MaintenanceSummary struct {
	Statuses   PercentageResult
	RepairTime DurationSummary
}

type BorrowingSummary struct {
	Statuses PercentageResult
}

type EquipmentSummary struct {
	Statuses   PercentageResult
	Categories []KeyCount
}

type Summary struct {
	Maintenance MaintenanceSummary
	Borrowing   BorrowingSummary
	Equipment   EquipmentSummary
}

// Service composes the page-level summaries from already-authorized
// records; all aggregation is in-memory over the fetched result sets.
type Service struct {
	maintenance MaintenanceReader
	borrowing   BorrowingReader
	equipment   EquipmentReader
	logger      *slog.Logger
}

func NewService(m MaintenanceReader, b BorrowingReader, e EquipmentReader, logger *slog.Logger) *Service {
	return &Service{
		maintenance: m,
		borrowing:   b,
		equipment:   e,
		logger:      logger,
	}
}

func (s *Service) Summary(dateRange DateRange) (*Summary, error) {
	maintSummary, err := s.maintenanceSummary(dateRange)
	if err != nil {
		return nil, err
	}

	borrowSummary, err := s.borrowingSummary(dateRange)
	if err != nil {
		return nil, err
	}

	equipSummary, err := s.equipmentSummary()
	if err != nil {
		return nil, err
	}

	return &Summary{
		Maintenance: *maintSummary,
		Borrowing:   *borrowSummary,
		Equipment:   *equipSummary,
	}, nil
}

func (s *Service) maintenanceSummary(dateRange DateRange) (*MaintenanceSummary, error) {
	requests, err := s.maintenance.List(maintenance.ListFilter{})
	if err != nil {
		s.logger.Error("failed to load maintenance requests for report", "error", err)
		return nil, internal.NewInternalError("failed to build maintenance report", err)
	}

	var statuses []string
	var pairs []DatePair
	for _, req := range requests {
		if !dateRange.contains(req.ReportedAt) {
			continue
		}
		statuses = append(statuses, string(req.Status))
		pairs = append(pairs, DatePair{Start: req.StartedAt, End: req.CompletedAt})
	}

	return &MaintenanceSummary{
		Statuses:   Percentages(StatusBreakdown(statuses, maintenance.StatusVocabulary)),
		RepairTime: AverageDays(pairs),
	}, nil
}

func (s *Service) borrowingSummary(dateRange DateRange) (*BorrowingSummary, error) {
	requests, err := s.borrowing.List(borrowing.ListFilter{})
	if err != nil {
		s.logger.Error("failed to load borrowing requests for report", "error", err)
		return nil, internal.NewInternalError("failed to build borrowing report", err)
	}

	var statuses []string
	for _, req := range requests {
		if !dateRange.contains(req.RequestedAt) {
			continue
		}
		statuses = append(statuses, string(req.Status))
	}

	return &BorrowingSummary{
		Statuses: Percentages(StatusBreakdown(statuses, borrowing.StatusVocabulary)),
	}, nil
}

func (s *Service) equipmentSummary() (*EquipmentSummary, error) {
	items, err := s.equipment.List(equipment.ListFilter{})
	if err != nil {
		s.logger.Error("failed to load equipment for report", "error", err)
		return nil, internal.NewInternalError("failed to build equipment report", err)
	}

	statuses := make([]string, 0, len(items))
	categories := make([]string, 0, len(items))
	for _, item := range items {
		statuses = append(statuses, string(item.Status))
		categories = append(categories, item.Category)
	}

	vocabulary := []string{
		string(equipment.StatusAvailable),
		string(equipment.StatusBorrowed),
		string(equipment.StatusMaintenance),
		string(equipment.StatusRetired),
	}
	return &EquipmentSummary{
		Statuses:   Percentages(StatusBreakdown(statuses, vocabulary)),
		Categories: CountBy(categories),
	}, nil
}
