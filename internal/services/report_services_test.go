package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/repository"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenFormat = regexp.MustCompile(`^CGS(-[0-9A-HJKMNP-TV-Z]{5}){4}$`)

var admin = AdminIdentity{Subject: "staff@campus.edu", Method: "jwt"}

// countingStore records how often Get reaches the underlying store.
type countingStore struct {
	repository.ReportStore
	gets atomic.Int64
	keys sync.Map
}

func (c *countingStore) Get(ctx context.Context, tok string) (*models.Report, error) {
	c.gets.Add(1)
	c.keys.Store(tok, true)
	return c.ReportStore.Get(ctx, tok)
}

// failingStore simulates an unavailable database.
type failingStore struct {
	repository.ReportStore
}

func (failingStore) Put(context.Context, *models.Report) error {
	return fmt.Errorf("%w: connection refused", repository.ErrPersistenceUnavailable)
}

func (failingStore) Get(context.Context, string) (*models.Report, error) {
	return nil, fmt.Errorf("%w: connection refused", repository.ErrPersistenceUnavailable)
}

// duplicateStore rejects the first n puts as duplicates.
type duplicateStore struct {
	repository.ReportStore
	rejections int
	puts       int
}

func (d *duplicateStore) Put(ctx context.Context, r *models.Report) error {
	d.puts++
	if d.puts <= d.rejections {
		return repository.ErrDuplicateToken
	}
	return d.ReportStore.Put(ctx, r)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func brokenACRequest() *dto.SubmitReportRequest {
	return &dto.SubmitReportRequest{
		Category:    "facility",
		Title:       "Broken AC in Room 502",
		Description: "The air conditioning unit in room 502 has been non-functional for three days.",
		Location:    "Room 502",
	}
}

func newServices(store repository.ReportStore) (*SubmissionService, *TrackingService, *TransitionService) {
	return NewSubmissionService(store, token.NewGenerator()),
		NewTrackingService(store),
		NewTransitionService(store)
}

func TestSubmitThenTrack_Scenario(t *testing.T) {
	ctx := context.Background()
	submit, track, transition := newServices(repository.NewMemoryReportStore())

	tok, err := submit.Submit(ctx, brokenACRequest())
	require.NoError(t, err)
	assert.Regexp(t, tokenFormat, tok)

	view, err := track.Track(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "submitted", view.Status)
	assert.Equal(t, "Broken AC in Room 502", view.Title)
	assert.Equal(t, "Room 502", view.Location)
	assert.False(t, view.HasEvidence)
	require.Len(t, view.History, 1)
	assert.Equal(t, "submitted", view.History[0].Status)

	_, err = transition.Transition(ctx, admin, tok, &dto.TransitionRequest{Status: "resolved", Remarks: "AC unit replaced"})
	require.NoError(t, err)

	view, err = track.Track(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "resolved", view.Status)
	require.Len(t, view.History, 2)
	assert.Equal(t, "resolved", view.History[1].Status)
	assert.Equal(t, "AC unit replaced", view.History[1].Remarks)
}

func TestSubmit_ValidationReportsAllFields(t *testing.T) {
	submit, _, _ := newServices(repository.NewMemoryReportStore())

	_, err := submit.Submit(context.Background(), &dto.SubmitReportRequest{
		Category:    "cafeteria",
		Title:       "   ",
		Description: "too short",
		Location:    strings.Repeat("x", 300),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, verr.Fields["category"], "must be one of")
	assert.Equal(t, "is required", verr.Fields["title"])
	assert.Equal(t, "must be at least 20 characters", verr.Fields["description"])
	assert.Equal(t, "must be at most 255 characters", verr.Fields["location"])
	assert.Contains(t, err.Error(), "validation failed")
}

func TestSubmit_TrimsAndNormalizesCategory(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryReportStore()
	submit, _, _ := newServices(store)

	req := brokenACRequest()
	req.Category = "  Facility "
	req.Title = "  Broken AC in Room 502  "
	req.EvidenceRef = " uploads/ac.jpg "
	tok, err := submit.Submit(ctx, req)
	require.NoError(t, err)

	stored, err := store.Get(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "facility", stored.Category)
	assert.Equal(t, "Broken AC in Room 502", stored.Title)
	assert.Equal(t, "uploads/ac.jpg", stored.EvidenceRef)
}

func TestSubmit_RetriesDuplicateTokens(t *testing.T) {
	ctx := context.Background()
	store := &duplicateStore{ReportStore: repository.NewMemoryReportStore(), rejections: 2}
	submit := NewSubmissionService(store, token.NewGenerator())

	tok, err := submit.Submit(ctx, brokenACRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, store.puts)

	_, err = store.Get(ctx, tok)
	assert.NoError(t, err)
}

func TestSubmit_GivesUpAfterBoundedRetries(t *testing.T) {
	store := &duplicateStore{ReportStore: repository.NewMemoryReportStore(), rejections: 100}
	submit := NewSubmissionService(store, token.NewGenerator())

	_, err := submit.Submit(context.Background(), brokenACRequest())
	assert.ErrorIs(t, err, ErrTokenSpaceExhausted)
	assert.Equal(t, maxTokenAttempts, store.puts)
}

func TestSubmit_RandomnessUnavailable(t *testing.T) {
	store := repository.NewMemoryReportStore()
	submit := NewSubmissionService(store, token.NewGeneratorWithReader(errReader{}))

	_, err := submit.Submit(context.Background(), brokenACRequest())
	assert.ErrorIs(t, err, token.ErrRandomnessUnavailable)

	counts, err := store.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts[models.StatusSubmitted])
}

func TestSubmit_PersistenceUnavailable(t *testing.T) {
	submit := NewSubmissionService(failingStore{}, token.NewGenerator())
	_, err := submit.Submit(context.Background(), brokenACRequest())
	assert.ErrorIs(t, err, repository.ErrPersistenceUnavailable)
}

func TestTrack_NotFoundIsUniform(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{ReportStore: repository.NewMemoryReportStore()}
	track := NewTrackingService(store)

	_, err := track.Track(ctx, "CGS-NOTAREALTOKEN")
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = track.Track(ctx, "CGS-ABCDE-FGHJK-MNPQR-STVWX")
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = track.Track(ctx, "")
	assert.ErrorIs(t, err, ErrReportNotFound)

	// Every lookup, malformed or not, reached the store exactly once.
	assert.EqualValues(t, 3, store.gets.Load())
	_, usedDecoy := store.keys.Load(token.Decoy())
	assert.True(t, usedDecoy)
}

func TestTrack_AcceptsSloppyTranscription(t *testing.T) {
	ctx := context.Background()
	submit, track, _ := newServices(repository.NewMemoryReportStore())

	tok, err := submit.Submit(ctx, brokenACRequest())
	require.NoError(t, err)

	sloppy := strings.ToLower(strings.ReplaceAll(tok, "-", " "))
	view, err := track.Track(ctx, sloppy)
	require.NoError(t, err)
	assert.Equal(t, "Broken AC in Room 502", view.Title)
}

func TestTrack_HidesEvidenceReferenceAndActors(t *testing.T) {
	ctx := context.Background()
	submit, track, transition := newServices(repository.NewMemoryReportStore())

	req := brokenACRequest()
	req.EvidenceRef = "s3://evidence/room502.jpg"
	tok, err := submit.Submit(ctx, req)
	require.NoError(t, err)
	_, err = transition.Transition(ctx, admin, tok, &dto.TransitionRequest{Status: "assigned"})
	require.NoError(t, err)

	view, err := track.Track(ctx, tok)
	require.NoError(t, err)
	assert.True(t, view.HasEvidence)
	assert.Len(t, view.History, 2)
}

func TestTrack_PersistenceUnavailable(t *testing.T) {
	track := NewTrackingService(failingStore{})
	_, err := track.Track(context.Background(), "CGS-ABCDE-FGHJK-MNPQR-STVWX")
	assert.ErrorIs(t, err, repository.ErrPersistenceUnavailable)
	assert.NotErrorIs(t, err, ErrReportNotFound)
}

func TestTransition_AppendOnly(t *testing.T) {
	ctx := context.Background()
	submit, track, transition := newServices(repository.NewMemoryReportStore())
	tok, err := submit.Submit(ctx, brokenACRequest())
	require.NoError(t, err)

	initial, err := track.Track(ctx, tok)
	require.NoError(t, err)

	steps := []string{"assigned", "in_progress", "resolved", "in_progress", "resolved"}
	for i, st := range steps {
		report, err := transition.Transition(ctx, admin, tok, &dto.TransitionRequest{Status: st, Remarks: fmt.Sprintf("note %d", i)})
		require.NoError(t, err)
		assert.Len(t, report.History, len(initial.History)+i+1)
		assert.Equal(t, admin.Subject, report.History[len(report.History)-1].Actor)
	}

	final, err := track.Track(ctx, tok)
	require.NoError(t, err)
	require.Len(t, final.History, len(initial.History)+len(steps))
	assert.Equal(t, initial.History, final.History[:len(initial.History)])
	assert.Equal(t, "resolved", final.Status)
}

func TestTransition_Errors(t *testing.T) {
	ctx := context.Background()
	submit, _, transition := newServices(repository.NewMemoryReportStore())
	tok, err := submit.Submit(ctx, brokenACRequest())
	require.NoError(t, err)

	_, err = transition.Transition(ctx, AdminIdentity{}, tok, &dto.TransitionRequest{Status: "assigned"})
	assert.ErrorIs(t, err, ErrUnauthorizedActor)

	_, err = transition.Transition(ctx, admin, tok, &dto.TransitionRequest{Status: "closed"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")

	_, err = transition.Transition(ctx, admin, "CGS-NOTAREALTOKEN", &dto.TransitionRequest{Status: "assigned"})
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = transition.Transition(ctx, admin, "CGS-ABCDE-FGHJK-MNPQR-STVWX", &dto.TransitionRequest{Status: "assigned"})
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestTransition_ConcurrentCallsBothRecorded(t *testing.T) {
	ctx := context.Background()
	submit, track, transition := newServices(repository.NewMemoryReportStore())
	tok, err := submit.Submit(ctx, brokenACRequest())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, st := range []string{"assigned", "in_progress"} {
		wg.Add(1)
		go func(st string) {
			defer wg.Done()
			_, err := transition.Transition(ctx, admin, tok, &dto.TransitionRequest{Status: st})
			assert.NoError(t, err)
		}(st)
	}
	wg.Wait()

	view, err := track.Track(ctx, tok)
	require.NoError(t, err)
	require.Len(t, view.History, 3)
	assert.Equal(t, "submitted", view.History[0].Status)
	got := []string{view.History[1].Status, view.History[2].Status}
	assert.ElementsMatch(t, []string{"assigned", "in_progress"}, got)
	assert.Equal(t, view.History[2].Status, view.Status)
}

func TestTransitionGet_ReturnsFullRecord(t *testing.T) {
	ctx := context.Background()
	submit, _, transition := newServices(repository.NewMemoryReportStore())
	req := brokenACRequest()
	req.EvidenceRef = "uploads/room502.jpg"
	tok, err := submit.Submit(ctx, req)
	require.NoError(t, err)

	report, err := transition.Get(ctx, admin, tok)
	require.NoError(t, err)
	assert.Equal(t, "uploads/room502.jpg", report.EvidenceRef)

	_, err = transition.Get(ctx, AdminIdentity{}, tok)
	assert.ErrorIs(t, err, ErrUnauthorizedActor)
}

func TestReportQueryService(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryReportStore()
	submit, _, transition := newServices(store)
	query := NewReportQueryService(store)

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	submit.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	var tokens []string
	for i := 0; i < 12; i++ {
		req := brokenACRequest()
		req.Title = fmt.Sprintf("Report %02d", i)
		if i%3 == 0 {
			req.Category = "it"
		}
		tok, err := submit.Submit(ctx, req)
		require.NoError(t, err)
		tokens = append(tokens, tok)
	}
	_, err := transition.Transition(ctx, admin, tokens[0], &dto.TransitionRequest{Status: "resolved"})
	require.NoError(t, err)

	list, err := query.List(ctx, &dto.ListReportsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 12, list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, defaultPageSize, list.PageSize)
	assert.Equal(t, "Report 11", list.Reports[0].Title)

	page, err := query.List(ctx, &dto.ListReportsQuery{Page: 2, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, page.Reports, 5)
	assert.Equal(t, "Report 06", page.Reports[0].Title)

	it, err := query.List(ctx, &dto.ListReportsQuery{Category: "IT"})
	require.NoError(t, err)
	assert.EqualValues(t, 4, it.Total)

	resolved, err := query.List(ctx, &dto.ListReportsQuery{Status: "resolved"})
	require.NoError(t, err)
	require.Len(t, resolved.Reports, 1)
	assert.Equal(t, tokens[0], resolved.Reports[0].Token)

	capped, err := query.List(ctx, &dto.ListReportsQuery{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, capped.PageSize)

	_, err = query.List(ctx, &dto.ListReportsQuery{Status: "archived"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	stats, err := query.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 12, stats.TotalReports)
	assert.EqualValues(t, 11, stats.SubmittedReports)
	assert.EqualValues(t, 1, stats.ResolvedReports)

	latest, err := query.Latest(ctx, 50)
	require.NoError(t, err)
	require.Len(t, latest, maxLatest)
	assert.Equal(t, "Report 11", latest[0].Title)
}
