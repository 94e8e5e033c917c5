package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReportStore persists reports in the `reports` and `report_history` tables.
type GormReportStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormReportStore(db *gorm.DB) *GormReportStore {
	return &GormReportStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *GormReportStore) Put(ctx context.Context, report *models.Report) error {
	if err := validateNewReport(report); err != nil {
		return err
	}

	row := report.Clone()
	entries := row.History
	row.History = nil
	for i := range entries {
		entries[i].ReportToken = row.Token
		if entries[i].ID == uuid.Nil {
			entries[i].ID = uuid.New()
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Report{}).Where("token = ?", row.Token).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateToken
		}
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return err
		}
		return tx.Create(&entries).Error
	})
	return translate(err)
}

func (s *GormReportStore) Get(ctx context.Context, token string) (*models.Report, error) {
	db := s.db.WithContext(ctx)

	var report models.Report
	if err := db.Where("token = ?", token).First(&report).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Where("report_token = ?", token).Order("seq ASC").Find(&report.History).Error; err != nil {
		return nil, translate(err)
	}

	// The history may have been read after a concurrent append committed;
	// derive status from it so the two always agree.
	report.Status = report.LastStatus()
	return &report, nil
}

func (s *GormReportStore) AppendStatus(ctx context.Context, token string, status models.Status, remarks, actor string) (*models.Report, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			First(&report).Error; err != nil {
			return err
		}

		var lastSeq int
		if err := tx.Model(&models.HistoryEntry{}).
			Where("report_token = ?", token).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&lastSeq).Error; err != nil {
			return err
		}

		now := s.now()
		entry := models.HistoryEntry{
			ID:          uuid.New(),
			ReportToken: token,
			Seq:         lastSeq + 1,
			Status:      status,
			Remarks:     remarks,
			Actor:       actor,
			CreatedAt:   now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&models.Report{}).
			Where("token = ?", token).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, token)
}

func (s *GormReportStore) List(ctx context.Context, filter ReportFilter, page Page) ([]models.Report, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Report{}).Scopes(filterScope(filter))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	find := query.Session(&gorm.Session{}).Order("created_at DESC").Order("token ASC")
	if page.Size > 0 {
		find = find.Limit(page.Size).Offset(page.Offset())
	}
	reports := make([]models.Report, 0)
	if err := find.Find(&reports).Error; err != nil {
		return nil, 0, translate(err)
	}
	return reports, total, nil
}

func (s *GormReportStore) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	var rows []struct {
		Status models.Status
		Count  int64
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Report{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}

	counts := make(map[models.Status]int64, len(models.Statuses))
	for _, st := range models.Statuses {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// likeEscaper makes search text match literally, as the memory store does.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterScope returns a GORM scope applying the admin list filters.
func filterScope(f ReportFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if f.Search != "" {
			like := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
			db = db.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(location) LIKE ? ESCAPE '\')`, like, like, like)
		}
		return db
	}
}
