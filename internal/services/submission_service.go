package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/logging"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/repository"
	"github.com/google/uuid"
)

// maxTokenAttempts bounds regeneration after a duplicate-token rejection.
const maxTokenAttempts = 3

type TokenGenerator interface {
	Generate() (string, error)
}

type SubmissionService struct {
	store  repository.ReportStore
	tokens TokenGenerator
	now    func() time.Time
}

func NewSubmissionService(store repository.ReportStore, tokens TokenGenerator) *SubmissionService {
	return &SubmissionService{
		store:  store,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates the request, stores a new report and returns its tracking
// token. The token is returned to the caller only; it is never logged.
func (s *SubmissionService) Submit(ctx context.Context, req *dto.SubmitReportRequest) (string, error) {
	in := dto.SubmitReportRequest{
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		EvidenceRef: strings.TrimSpace(req.EvidenceRef),
	}
	if err := validateStruct(&in); err != nil {
		return "", err
	}

	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		tok, err := s.tokens.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}

		now := s.now()
		report := &models.Report{
			Token:       tok,
			Category:    in.Category,
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
			EvidenceRef: in.EvidenceRef,
			Status:      models.StatusSubmitted,
			CreatedAt:   now,
			UpdatedAt:   now,
			History: []models.HistoryEntry{{
				ID:          uuid.New(),
				ReportToken: tok,
				Seq:         1,
				Status:      models.StatusSubmitted,
				CreatedAt:   now,
			}},
		}

		err = s.store.Put(ctx, report)
		if err == nil {
			logging.From(ctx).Info("report submitted",
				"action", "report_submit",
				"category", in.Category,
				"has_evidence", in.EvidenceRef != "",
			)
			return tok, nil
		}
		if !errors.Is(err, repository.ErrDuplicateToken) {
			return "", fmt.Errorf("failed to store report: %w", err)
		}
		logging.From(ctx).Warn("token collision, regenerating", "action", "report_submit", "attempt", attempt)
	}

	logging.From(ctx).Error("token allocation exhausted", "action", "report_submit", "attempts", maxTokenAttempts)
	return "", ErrTokenSpaceExhausted
}
