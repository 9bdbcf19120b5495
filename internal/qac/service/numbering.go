package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Expenditious/qac-system/internal/qac/repository"
)

// NumberingService builds human-readable inspection numbers of the form
// {prefix}-{YYYYMMDD}-{HHMMSS}-{seq}, where seq is today's record count
// plus one, zero-padded to the form's configured width.
//
// Two requests that both read the count before either commits can produce
// the same number. The unique index on inspection_no catches the loser and
// the create path retries with a fresh number, so the race cannot leak a
// duplicate into the store.
type NumberingService struct {
	repo *repository.InspectionRepository
	now  func() time.Time
}

func NewNumberingService(repo *repository.InspectionRepository) *NumberingService {
	return &NumberingService{repo: repo, now: time.Now}
}

// Next generates the next inspection number for a form.
func (s *NumberingService) Next(ctx context.Context, prefix string, width int) (string, error) {
	if width <= 0 {
		width = 3
	}
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := s.repo.CountCreatedSince(ctx, midnight)
	if err != nil {
		return "", fmt.Errorf("count today's inspections: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s-%0*d",
		prefix, now.Format("20060102"), now.Format("150405"), width, count+1), nil
}
