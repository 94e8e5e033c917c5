package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/google/uuid"
)

// MemoryReportStore is an in-process ReportStore for tests and local development.
// Writes are serialized by a single mutex; reads share it.
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string]*models.Report
	now     func() time.Time
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{
		reports: make(map[string]*models.Report),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryReportStore) Put(_ context.Context, report *models.Report) error {
	if err := validateNewReport(report); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.Token]; exists {
		return ErrDuplicateToken
	}

	stored := report.Clone()
	for i := range stored.History {
		stored.History[i].ReportToken = stored.Token
		if stored.History[i].ID == uuid.Nil {
			stored.History[i].ID = uuid.New()
		}
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	s.reports[stored.Token] = stored
	return nil
}

func (s *MemoryReportStore) Get(_ context.Context, token string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[token]
	if !ok {
		return nil, ErrNotFound
	}
	return report.Clone(), nil
}

func (s *MemoryReportStore) AppendStatus(_ context.Context, token string, status models.Status, remarks, actor string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[token]
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	// Build the new history on a fresh slice; readers holding an older clone
	// keep their own backing array.
	history := make([]models.HistoryEntry, len(report.History), len(report.History)+1)
	copy(history, report.History)
	history = append(history, models.HistoryEntry{
		ID:          uuid.New(),
		ReportToken: token,
		Seq:         len(report.History) + 1,
		Status:      status,
		Remarks:     remarks,
		Actor:       actor,
		CreatedAt:   now,
	})

	updated := *report
	updated.History = history
	updated.Status = status
	updated.UpdatedAt = now
	s.reports[token] = &updated
	return updated.Clone(), nil
}

func (s *MemoryReportStore) List(_ context.Context, filter ReportFilter, page Page) ([]models.Report, int64, error) {
	s.mu.RLock()
	matched := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if filter.matches(r) {
			row := *r
			row.History = nil
			matched = append(matched, row)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Token < matched[j].Token
	})

	total := int64(len(matched))
	start := page.Offset()
	if start >= len(matched) {
		return []models.Report{}, total, nil
	}
	end := len(matched)
	if page.Size > 0 && start+page.Size < end {
		end = start + page.Size
	}
	return matched[start:end], total, nil
}

func (s *MemoryReportStore) CountByStatus(_ context.Context) (map[models.Status]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Status]int64, len(models.Statuses))
	for _, st := range models.Statuses {
		counts[st] = 0
	}
	for _, r := range s.reports {
		counts[r.Status]++
	}
	return counts, nil
}
