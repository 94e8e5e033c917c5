package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxLatest       = 10
)

// ReportQueryService serves the admin listing and the public aggregates.
type ReportQueryService struct {
	store repository.ReportStore
}

func NewReportQueryService(store repository.ReportStore) *ReportQueryService {
	return &ReportQueryService{store: store}
}

func (s *ReportQueryService) List(ctx context.Context, q *dto.ListReportsQuery) (*dto.ListReportsResponse, error) {
	in := dto.ListReportsQuery{
		Status:   strings.ToLower(strings.TrimSpace(q.Status)),
		Category: strings.ToLower(strings.TrimSpace(q.Category)),
		Search:   strings.TrimSpace(q.Search),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize <= 0 {
		in.PageSize = defaultPageSize
	}
	if in.PageSize > maxPageSize {
		in.PageSize = maxPageSize
	}

	reports, total, err := s.store.List(ctx,
		repository.ReportFilter{
			Status:   models.Status(in.Status),
			Category: in.Category,
			Search:   in.Search,
		},
		repository.Page{Number: in.Page, Size: in.PageSize},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	summaries := make([]dto.ReportSummary, len(reports))
	for i, r := range reports {
		summaries[i] = dto.ReportSummary{
			Token:       r.Token,
			Category:    r.Category,
			Title:       r.Title,
			Location:    r.Location,
			Status:      string(r.Status),
			HasEvidence: r.EvidenceRef != "",
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
	}

	return &dto.ListReportsResponse{
		Reports:  summaries,
		Total:    total,
		Page:     in.Page,
		PageSize: in.PageSize,
	}, nil
}

func (s *ReportQueryService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	out := &dto.StatsResponse{
		SubmittedReports:  counts[models.StatusSubmitted],
		AssignedReports:   counts[models.StatusAssigned],
		InProgressReports: counts[models.StatusInProgress],
		ResolvedReports:   counts[models.StatusResolved],
	}
	for _, n := range counts {
		out.TotalReports += n
	}
	return out, nil
}

// Latest returns the newest reports for the public feed, without tokens.
func (s *ReportQueryService) Latest(ctx context.Context, limit int) ([]dto.PublicReportSummary, error) {
	if limit <= 0 || limit > maxLatest {
		limit = maxLatest
	}

	reports, _, err := s.store.List(ctx, repository.ReportFilter{}, repository.Page{Number: 1, Size: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list latest reports: %w", err)
	}

	out := make([]dto.PublicReportSummary, len(reports))
	for i, r := range reports {
		out[i] = dto.PublicReportSummary{
			Category:  r.Category,
			Title:     r.Title,
			Location:  r.Location,
			Status:    string(r.Status),
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}
