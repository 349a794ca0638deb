package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
)

// ShowtimeRepo manages persistence for scheduled screenings.  It is the
// schedule store the planner reads its snapshot from; writes go through the
// SubmissionService so they are always revalidated inside a transaction.
//
// Timestamps are stored as DATETIME wall-clock values in the cinema's
// timezone; the DSN's loc parameter makes the driver parse them back into
// the same location.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// DB exposes the underlying sql.DB so the submission service can begin
// transactions spanning the revalidation and the insert.
func (r *ShowtimeRepo) DB() *sql.DB {
	return r.db
}

// selectShowtime is the shared column list for snapshot queries.  Room and
// movie names are denormalized into the result so conflict reports can be
// rendered without further lookups.
const selectShowtime = `SELECT st.id, st.room_id, r.name, st.movie_id, m.title, st.format, st.starts_at, st.ends_at, st.price_cents
        FROM showtimes st
        JOIN rooms r ON r.id = st.room_id
        JOIN movies m ON m.id = st.movie_id`

// ListShowtimes implements planner.ScheduleStore: it returns every
// SCHEDULED screening of the cinema on the given calendar date, across all
// rooms, ordered by start time.  The cross-room ordering matters for the
// proximity rule, which must see other rooms' screenings for the date.
func (r *ShowtimeRepo) ListShowtimes(ctx context.Context, cinemaID uint64, date string) ([]planner.ExistingShowtime, error) {
	const q = selectShowtime + `
        WHERE r.cinema_id = ? AND DATE(st.starts_at) = ? AND st.status = 'SCHEDULED'
        ORDER BY st.starts_at ASC, st.id ASC`
	rows, err := r.db.QueryContext(ctx, q, cinemaID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShowtimes(rows)
}

// listForUpdateTx re-reads the cinema's screenings for the given dates
// inside a transaction, locking the matched rows.  This is the per-day
// serialization point the submission path revalidates against.
func (r *ShowtimeRepo) listForUpdateTx(ctx context.Context, tx *sql.Tx, cinemaID uint64, dates []string) ([]planner.ExistingShowtime, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	q := selectShowtime + ` WHERE r.cinema_id = ? AND DATE(st.starts_at) IN (`
	args := make([]any, 0, len(dates)+1)
	args = append(args, cinemaID)
	for i, d := range dates {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, d)
	}
	q += `) AND st.status = 'SCHEDULED' ORDER BY st.id ASC FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShowtimes(rows)
}

// GetByID fetches a single screening.  It returns ErrShowtimeNotFound when
// no row exists.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*planner.ExistingShowtime, error) {
	const q = selectShowtime + ` WHERE st.id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	var s planner.ExistingShowtime
	err := row.Scan(&s.ID, &s.RoomID, &s.RoomName, &s.MovieID, &s.MovieTitle, &s.Format, &s.StartsAt, &s.EndsAt, &s.PriceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// createTx inserts one accepted candidate as a new SCHEDULED screening and
// returns the generated id.  It participates in the caller's transaction.
func (r *ShowtimeRepo) createTx(ctx context.Context, tx *sql.Tx, c planner.CandidateShowtime) (uint64, error) {
	const q = `INSERT INTO showtimes (room_id, movie_id, format, starts_at, ends_at, price_cents)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		c.RoomID, c.MovieID, c.Format,
		c.StartsAt.Format(dbTimeLayout), c.EndsAt.Format(dbTimeLayout),
		c.PriceCents,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// updateTx rewrites an existing screening in place during an edit.  The
// row must exist; callers verify existence before revalidating.
func (r *ShowtimeRepo) updateTx(ctx context.Context, tx *sql.Tx, c planner.CandidateShowtime) error {
	const q = `UPDATE showtimes
               SET room_id = ?, movie_id = ?, format = ?, starts_at = ?, ends_at = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND status = 'SCHEDULED'`
	res, err := tx.ExecContext(ctx, q,
		c.RoomID, c.MovieID, c.Format,
		c.StartsAt.Format(dbTimeLayout), c.EndsAt.Format(dbTimeLayout),
		c.PriceCents, c.ReplacesID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "row gone" from "values identical": an UPDATE that
		// sets the current values reports zero affected rows on MySQL.
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ? AND status = 'SCHEDULED'`, c.ReplacesID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowtimeNotFound
		}
		return err
	}
	return nil
}

func scanShowtimes(rows *sql.Rows) ([]planner.ExistingShowtime, error) {
	var result []planner.ExistingShowtime
	for rows.Next() {
		var s planner.ExistingShowtime
		if err := rows.Scan(&s.ID, &s.RoomID, &s.RoomName, &s.MovieID, &s.MovieTitle, &s.Format, &s.StartsAt, &s.EndsAt, &s.PriceCents); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
