package dto

import "time"

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ListReportsQuery struct {
	Status   string `query:"status" validate:"omitempty,report_status"`
	Category string `query:"category" validate:"omitempty,report_category"`
	Search   string `query:"search" validate:"max=100"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

type ReportSummary struct {
	Token       string    `json:"token"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	HasEvidence bool      `json:"has_evidence"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListReportsResponse struct {
	Reports  []ReportSummary `json:"reports"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type TransitionRequest struct {
	Status  string `json:"status" validate:"required,report_status"`
	Remarks string `json:"remarks" validate:"max=1000"`
}
