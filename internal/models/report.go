package models

import (
	"time"
)

type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

// Statuses lists the lifecycle in its normal forward order.
var Statuses = []Status{StatusSubmitted, StatusAssigned, StatusInProgress, StatusResolved}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ReportCategories is the fixed set of incident categories.
var ReportCategories = []string{
	"academic", "facility", "transport", "security",
	"harassment", "it", "administrative",
}

func ValidCategory(category string) bool {
	for _, c := range ReportCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Report is a campus incident report keyed by its tracking token.
type Report struct {
	Token       string         `gorm:"primaryKey;size:32" json:"token"`
	Category    string         `gorm:"size:50;not null;index" json:"category"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Location    string         `gorm:"size:255" json:"location,omitempty"`
	EvidenceRef string         `gorm:"size:500" json:"evidence_ref,omitempty"`
	Status      Status         `gorm:"size:20;not null;index" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	History     []HistoryEntry `gorm:"foreignKey:ReportToken;references:Token" json:"history,omitempty"`
}

// Clone returns a deep copy so callers never share history slices with a store.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	out := *r
	if r.History != nil {
		out.History = make([]HistoryEntry, len(r.History))
		copy(out.History, r.History)
	}
	return &out
}

// LastStatus returns the status of the newest history entry, or the stored
// status when no history was loaded.
func (r *Report) LastStatus() Status {
	if n := len(r.History); n > 0 {
		return r.History[n-1].Status
	}
	return r.Status
}
