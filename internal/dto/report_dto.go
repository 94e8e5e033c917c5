package dto

import "time"

// SubmitReportRequest is accepted as JSON or as a submitted form.
type SubmitReportRequest struct {
	Category    string `json:"category" form:"category" validate:"required,report_category"`
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"required,min=20,max=5000"`
	Location    string `json:"location" form:"location" validate:"max=255"`
	EvidenceRef string `json:"evidence_ref" form:"evidence_ref" validate:"max=500"`
}

type SubmitReportResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type HistoryEntryView struct {
	Seq       int       `json:"seq"`
	Status    string    `json:"status"`
	Remarks   string    `json:"remarks,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackReportResponse is what an anonymous token holder may see.
type TrackReportResponse struct {
	Status      string             `json:"status"`
	Category    string             `json:"category"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Location    string             `json:"location,omitempty"`
	HasEvidence bool               `json:"has_evidence"`
	CreatedAt   time.Time          `json:"created_at"`
	History     []HistoryEntryView `json:"history"`
}

type StatsResponse struct {
	TotalReports      int64 `json:"total_reports"`
	SubmittedReports  int64 `json:"submitted_reports"`
	AssignedReports   int64 `json:"assigned_reports"`
	InProgressReports int64 `json:"in_progress_reports"`
	ResolvedReports   int64 `json:"resolved_reports"`
}

// PublicReportSummary never carries the token or the description.
type PublicReportSummary struct {
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
