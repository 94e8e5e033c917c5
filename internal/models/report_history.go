package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one append-only status change of a report.
type HistoryEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportToken string    `gorm:"size:32;not null;uniqueIndex:idx_history_report_seq" json:"-"`
	Seq         int       `gorm:"not null;uniqueIndex:idx_history_report_seq" json:"seq"`
	Status      Status    `gorm:"size:20;not null" json:"status"`
	Remarks     string    `gorm:"size:1000" json:"remarks,omitempty"`
	Actor       string    `gorm:"size:255" json:"actor,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (HistoryEntry) TableName() string {
	return "report_history"
}
