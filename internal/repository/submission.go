package repository

import (
	"context"
	"sort"

	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
)

// SubmissionService is the authoritative write path for accepted candidates.
// The planner's preview is advisory: two clients previewing overlapping
// batches concurrently each see an empty conflict set against the other.
// To close that gap, every submission re-runs the same rule implementation
// (planner.Resolve) inside a transaction, against the affected days'
// schedule re-read with FOR UPDATE, before any row is written.  A batch
// that fails revalidation is rolled back in full; there are no partial
// submissions.
type SubmissionService struct {
	showtimes   *ShowtimeRepo
	policies    map[string]planner.FormatPolicy
	enforceCaps bool
}

// NewSubmissionService wires the service over the showtime repository.  The
// policy table must be the same one the preview planner uses.
func NewSubmissionService(showtimes *ShowtimeRepo, policies map[string]planner.FormatPolicy, enforceCaps bool) *SubmissionService {
	if showtimes == nil {
		panic("nil repository passed to NewSubmissionService")
	}
	if policies == nil {
		policies = planner.DefaultPolicies
	}
	return &SubmissionService{showtimes: showtimes, policies: policies, enforceCaps: enforceCaps}
}

// SubmitBatch persists the accepted candidates of a pass.  On success it
// returns the created screenings with their generated ids.  When the in-tx
// revalidation rejects any candidate the whole batch is rolled back and the
// conflicting PlanResult is returned so the caller can show the operator a
// fresh breakdown.
func (s *SubmissionService) SubmitBatch(ctx context.Context, cinemaID uint64, accepted []planner.CandidateShowtime) ([]planner.ExistingShowtime, *planner.PlanResult, error) {
	if len(accepted) == 0 {
		return nil, nil, nil
	}
	tx, err := s.showtimes.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	fresh, err := s.showtimes.listForUpdateTx(ctx, tx, cinemaID, candidateDates(accepted))
	if err != nil {
		return nil, nil, err
	}
	recheck := planner.Resolve(accepted, fresh, s.policies, planner.EvalOptions{EnforceCaps: s.enforceCaps})
	if len(recheck.Rejected) > 0 {
		return nil, recheck, nil
	}

	created := make([]planner.ExistingShowtime, 0, len(accepted))
	for _, c := range accepted {
		id, err := s.showtimes.createTx(ctx, tx, c)
		if err != nil {
			return nil, nil, err
		}
		created = append(created, planner.ExistingShowtime{
			ID:         id,
			RoomID:     c.RoomID,
			RoomName:   c.RoomName,
			MovieID:    c.MovieID,
			MovieTitle: c.MovieTitle,
			Format:     c.Format,
			StartsAt:   c.StartsAt,
			EndsAt:     c.EndsAt,
			PriceCents: c.PriceCents,
		})
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return created, nil, nil
}

// SubmitEdit rewrites one existing screening with the accepted edit
// candidate, revalidating against the locked day schedule with the edited
// showtime excluded exactly as the preview did.
func (s *SubmissionService) SubmitEdit(ctx context.Context, cinemaID uint64, c planner.CandidateShowtime) (*planner.ExistingShowtime, *planner.PlanResult, error) {
	tx, err := s.showtimes.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	fresh, err := s.showtimes.listForUpdateTx(ctx, tx, cinemaID, []string{c.Date})
	if err != nil {
		return nil, nil, err
	}
	recheck := planner.Resolve([]planner.CandidateShowtime{c}, fresh, s.policies, planner.EvalOptions{
		ExcludeShowtimeID: c.ReplacesID,
		EnforceCaps:       s.enforceCaps,
	})
	if len(recheck.Rejected) > 0 {
		return nil, recheck, nil
	}
	if err := s.showtimes.updateTx(ctx, tx, c); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	updated := planner.ExistingShowtime{
		ID:         c.ReplacesID,
		RoomID:     c.RoomID,
		RoomName:   c.RoomName,
		MovieID:    c.MovieID,
		MovieTitle: c.MovieTitle,
		Format:     c.Format,
		StartsAt:   c.StartsAt,
		EndsAt:     c.EndsAt,
		PriceCents: c.PriceCents,
	}
	return &updated, nil, nil
}

// candidateDates collects the distinct calendar dates of a batch, sorted so
// the locking query is deterministic.
func candidateDates(candidates []planner.CandidateShowtime) []string {
	seen := make(map[string]bool, len(candidates))
	var dates []string
	for _, c := range candidates {
		if !seen[c.Date] {
			seen[c.Date] = true
			dates = append(dates, c.Date)
		}
	}
	sort.Strings(dates)
	return dates
}
