package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
)

// MovieRepo provides read access to the movie catalog.  The planner only
// needs the title (for conflict reports) and the duration (for computing
// candidate end times).
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// GetByID fetches a movie by id.  It returns ErrMovieNotFound when no row
// exists.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (planner.Movie, error) {
	const q = `SELECT id, title, duration_min FROM movies WHERE id = ?`
	var m planner.Movie
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.DurationMin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return planner.Movie{}, ErrMovieNotFound
		}
		return planner.Movie{}, err
	}
	return m, nil
}
