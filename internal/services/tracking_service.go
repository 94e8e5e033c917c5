package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/repository"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/token"
)

type TrackingService struct {
	store repository.ReportStore
}

func NewTrackingService(store repository.ReportStore) *TrackingService {
	return &TrackingService{store: store}
}

// Track looks a report up by token. Malformed and unknown tokens both cost one
// store lookup and both yield ErrReportNotFound.
func (s *TrackingService) Track(ctx context.Context, raw string) (*dto.TrackReportResponse, error) {
	key, normErr := token.Normalize(raw)
	if normErr != nil {
		key = token.Decoy()
	}

	report, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if normErr != nil {
		return nil, ErrReportNotFound
	}

	return toTrackView(report), nil
}

func toTrackView(r *models.Report) *dto.TrackReportResponse {
	history := make([]dto.HistoryEntryView, len(r.History))
	for i, h := range r.History {
		history[i] = dto.HistoryEntryView{
			Seq:       h.Seq,
			Status:    string(h.Status),
			Remarks:   h.Remarks,
			Timestamp: h.CreatedAt,
		}
	}
	return &dto.TrackReportResponse{
		Status:      string(r.Status),
		Category:    r.Category,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		HasEvidence: r.EvidenceRef != "",
		CreatedAt:   r.CreatedAt,
		History:     history,
	}
}
