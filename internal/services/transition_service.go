package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/logging"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/repository"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/token"
)

// AdminIdentity is the already-authenticated caller of administrative
// operations. How it was authenticated is not the services' concern.
type AdminIdentity struct {
	Subject string
	Method  string
}

func (a AdminIdentity) Valid() bool {
	return strings.TrimSpace(a.Subject) != ""
}

type TransitionService struct {
	store repository.ReportStore
}

func NewTransitionService(store repository.ReportStore) *TransitionService {
	return &TransitionService{store: store}
}

// Transition appends a status change to a report's history. Any status may
// follow any other; every change is kept.
func (s *TransitionService) Transition(ctx context.Context, admin AdminIdentity, raw string, req *dto.TransitionRequest) (*models.Report, error) {
	if !admin.Valid() {
		return nil, ErrUnauthorizedActor
	}

	in := dto.TransitionRequest{
		Status:  strings.ToLower(strings.TrimSpace(req.Status)),
		Remarks: strings.TrimSpace(req.Remarks),
	}
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	key, err := token.Normalize(raw)
	if err != nil {
		return nil, ErrReportNotFound
	}

	report, err := s.store.AppendStatus(ctx, key, models.Status(in.Status), in.Remarks, admin.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to append status: %w", err)
	}

	logging.From(ctx).Info("report status changed",
		"action", "report_transition",
		"admin", admin.Subject,
		"status", in.Status,
		"history_len", len(report.History),
	)
	return report, nil
}

// Get returns the full record, including evidence reference and actors.
func (s *TransitionService) Get(ctx context.Context, admin AdminIdentity, raw string) (*models.Report, error) {
	if !admin.Valid() {
		return nil, ErrUnauthorizedActor
	}
	key, err := token.Normalize(raw)
	if err != nil {
		return nil, ErrReportNotFound
	}
	report, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}
