// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// ScheduledShowtime is one persisted screening inside a batch event.
type ScheduledShowtime struct {
	ShowtimeID uint64 `json:"showtime_id"`
	RoomID     uint64 `json:"room_id"`
	RoomName   string `json:"room_name"`
	Format     string `json:"format"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	PriceCents uint32 `json:"price_cents"`
}

// BatchScheduledEvent is published after a batch of showtimes is committed.
// It carries enough information for downstream consumers to log, notify or
// refresh caches without querying the primary database.  PassID ties the
// event back to the planning pass that produced the batch.
type BatchScheduledEvent struct {
	PassID      string              `json:"pass_id"`
	CinemaID    uint64              `json:"cinema_id"`
	MovieID     uint64              `json:"movie_id"`
	MovieTitle  string              `json:"movie_title"`
	ScheduledBy uint64              `json:"scheduled_by"`
	Showtimes   []ScheduledShowtime `json:"showtimes"`
	ScheduledAt string              `json:"scheduled_at"`
}
