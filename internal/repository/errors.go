// Package repository contains data access logic for the showtime planner,
// separated from HTTP handlers.  This file defines sentinel errors shared
// across repositories so higher layers can distinguish failure scenarios
// without string matching.
package repository

import "errors"

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// ErrMovieNotFound is returned when a movie lookup fails.
var ErrMovieNotFound = errors.New("movie not found")

// ErrShowtimeNotFound is returned when a showtime lookup fails.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrUserNotFound is returned when a user lookup fails.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering a user with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// dbTimeLayout is the DATETIME format used when writing timestamps.  Reads
// rely on the driver's parseTime support, configured with the cinema's
// timezone so wall-clock times round-trip unchanged.
const dbTimeLayout = "2006-01-02 15:04:05"
