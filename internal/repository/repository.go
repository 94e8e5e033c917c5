package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrDuplicateToken         = errors.New("duplicate token")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// ReportStore owns report records and their status history. Implementations
// return copies; mutating a returned report never changes stored state.
type ReportStore interface {
	Put(ctx context.Context, report *models.Report) error
	Get(ctx context.Context, token string) (*models.Report, error)
	AppendStatus(ctx context.Context, token string, status models.Status, remarks, actor string) (*models.Report, error)
	List(ctx context.Context, filter ReportFilter, page Page) ([]models.Report, int64, error)
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
}

// AdminStore keeps administrator accounts for the login collaborator.
type AdminStore interface {
	FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	SaveAdmin(ctx context.Context, admin *models.AdminUser) error
}

type ReportFilter struct {
	Status   models.Status
	Category string
	Search   string
}

func (f ReportFilter) matches(r *models.Report) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Title), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) &&
			!strings.Contains(strings.ToLower(r.Location), needle) {
			return false
		}
	}
	return true
}

// Page is 1-based.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

func validateNewReport(report *models.Report) error {
	if report == nil || report.Token == "" {
		return errors.New("report token is required")
	}
	if len(report.History) == 0 {
		return errors.New("report requires an initial history entry")
	}
	if report.Status != report.LastStatus() {
		return errors.New("report status must match its last history entry")
	}
	return nil
}

// translate maps driver errors onto the store's sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateToken), errors.Is(err, ErrPersistenceUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateToken
	default:
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
}
