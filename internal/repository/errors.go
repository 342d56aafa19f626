// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrDateConflict signals that a requested stay overlaps a
// reservation that was committed in the meantime.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a room that still has upcoming bookings. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrDateConflict is returned by the reservation write path when the
// requested date range overlaps an existing confirmed reservation for
// the same room. The check runs inside the booking transaction with the
// conflicting rows locked, which is what actually prevents two
// concurrent guests from both booking the same nights; any availability
// map the caller validated against earlier is only advisory.
var ErrDateConflict = errors.New("dates no longer available")
