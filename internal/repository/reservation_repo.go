package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/rental-booking/internal/availability"
)

// ReservationRepo provides access to reservations. A reservation books a
// room for a half-open range of calendar days: check_in is the first
// occupied night, check_out is the departure day and stays bookable for
// the next guest. Dates are stored as DATE columns and handled in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for transaction control in handlers.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// ReservationRecord mirrors the schema of the reservations table. It is
// used by the repository when constructing or scanning rows. Status is
// one of CONFIRMED or CANCELLED.
type ReservationRecord struct {
	ID               uint64
	RoomID           uint64
	GuestID          uint64
	CheckIn          time.Time
	CheckOut         time.Time
	Status           string
	TotalAmountCents int64
	ConfirmationCode string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FetchForRoom returns the availability snapshot for a room: every
// confirmed reservation overlapping the window [windowStart, windowEnd).
// This is the input the availability resolver works from; callers must
// treat an error here as "availability unknown" and surface it, never as
// an empty set.
func (r *ReservationRepo) FetchForRoom(ctx context.Context, roomID uint64, windowStart, windowEnd time.Time) ([]availability.Reservation, error) {
	const q = `SELECT room_id, check_in, check_out
	           FROM reservations
	           WHERE room_id = ? AND status = 'CONFIRMED'
	             AND check_in < ? AND check_out > ?`
	rows, err := r.db.QueryContext(ctx, q, roomID, windowEnd, windowStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]availability.Reservation, 0)
	for rows.Next() {
		var res availability.Reservation
		if err := rows.Scan(&res.RoomID, &res.CheckIn, &res.CheckOut); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTx inserts a reservation within the given transaction. Before the
// insert it locks every confirmed reservation of the room that overlaps
// the requested range (SELECT ... FOR UPDATE) and fails with
// ErrDateConflict when any exists. Combined with the transaction this
// closes the race where two guests validate against the same availability
// snapshot and both try to book: the second writer blocks on the lock and
// then sees the first writer's row. On success the record's ID and
// timestamps are populated. The caller must commit or rollback.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *ReservationRecord) error {
	const lockQ = `SELECT id FROM reservations
	               WHERE room_id = ? AND status = 'CONFIRMED'
	                 AND check_in < ? AND check_out > ?
	               FOR UPDATE`
	rows, err := tx.QueryContext(ctx, lockQ, rec.RoomID, rec.CheckOut, rec.CheckIn)
	if err != nil {
		return err
	}
	conflict := rows.Next()
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if conflict {
		return ErrDateConflict
	}

	const insQ = `INSERT INTO reservations
	              (room_id, guest_id, check_in, check_out, status, total_amount_cents, confirmation_code)
	              VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insQ,
		rec.RoomID, rec.GuestID, rec.CheckIn, rec.CheckOut, rec.Status,
		rec.TotalAmountCents, rec.ConfirmationCode)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)

	const selQ = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, selQ, rec.ID).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// BookingDetail is a reservation joined with its room and property for
// display to guests and hosts.
type BookingDetail struct {
	ID               uint64 `json:"id"`
	RoomID           uint64 `json:"room_id"`
	RoomName         string `json:"room_name"`
	PropertyID       uint64 `json:"property_id"`
	PropertyName     string `json:"property_name"`
	City             string `json:"city"`
	GuestID          uint64 `json:"guest_id,omitempty"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	Status           string `json:"status"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	ConfirmationCode string `json:"confirmation_code"`
}

const detailQ = `SELECT res.id, res.room_id, rm.name, p.id, p.name, p.city,
                        res.guest_id, res.check_in, res.check_out,
                        res.status, res.total_amount_cents, res.confirmation_code
                 FROM reservations res
                 JOIN rooms rm ON rm.id = res.room_id
                 JOIN properties p ON p.id = rm.property_id`

func scanBookingDetail(row interface{ Scan(...any) error }) (*BookingDetail, error) {
	var d BookingDetail
	var in, out time.Time
	if err := row.Scan(
		&d.ID, &d.RoomID, &d.RoomName, &d.PropertyID, &d.PropertyName, &d.City,
		&d.GuestID, &in, &out, &d.Status, &d.TotalAmountCents, &d.ConfirmationCode,
	); err != nil {
		return nil, err
	}
	d.CheckIn = in.UTC().Format(availability.DayFormat)
	d.CheckOut = out.UTC().Format(availability.DayFormat)
	return &d, nil
}

// GetByIDForGuest returns a single reservation owned by the guest. When
// the reservation exists but belongs to someone else, ErrForbidden is
// returned; when it does not exist, sql.ErrNoRows.
func (r *ReservationRepo) GetByIDForGuest(ctx context.Context, reservationID, guestID uint64) (*BookingDetail, error) {
	d, err := scanBookingDetail(r.db.QueryRowContext(ctx, detailQ+" WHERE res.id = ?", reservationID))
	if err != nil {
		return nil, err
	}
	if d.GuestID != guestID {
		return nil, ErrForbidden
	}
	return d, nil
}

// ListByGuest returns all reservations of a guest, newest first.
func (r *ReservationRepo) ListByGuest(ctx context.Context, guestID uint64) ([]*BookingDetail, error) {
	return r.listDetails(ctx, detailQ+" WHERE res.guest_id = ? ORDER BY res.created_at DESC", guestID)
}

// ListByPropertyForHost returns all reservations of a property after
// verifying the property belongs to the host. Returns ErrPropertyNotFound
// when the property does not exist and ErrForbidden on an ownership
// mismatch.
func (r *ReservationRepo) ListByPropertyForHost(ctx context.Context, propertyID, hostID uint64) ([]*BookingDetail, error) {
	const checkQ = `SELECT host_id FROM properties WHERE id = ?`
	var actualHostID uint64
	if err := r.db.QueryRowContext(ctx, checkQ, propertyID).Scan(&actualHostID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if actualHostID != hostID {
		return nil, ErrForbidden
	}
	return r.listDetails(ctx, detailQ+" WHERE p.id = ? ORDER BY res.check_in DESC", propertyID)
}

func (r *ReservationRepo) listDetails(ctx context.Context, q string, args ...any) ([]*BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetInfoForGuestTx loads a reservation's check-in date and status within
// a transaction, validating that it belongs to the guest. Used by the
// cancellation flow. Returns sql.ErrNoRows when absent and ErrForbidden
// on an ownership mismatch.
func (r *ReservationRepo) GetInfoForGuestTx(ctx context.Context, tx *sql.Tx, reservationID, guestID uint64) (time.Time, string, error) {
	const q = `SELECT guest_id, check_in, status FROM reservations WHERE id = ? FOR UPDATE`
	var actualGuestID uint64
	var checkIn time.Time
	var status string
	if err := tx.QueryRowContext(ctx, q, reservationID).Scan(&actualGuestID, &checkIn, &status); err != nil {
		return time.Time{}, "", err
	}
	if actualGuestID != guestID {
		return time.Time{}, "", ErrForbidden
	}
	return checkIn.UTC(), strings.ToUpper(status), nil
}

// CancelTx marks a reservation CANCELLED inside the transaction. The
// cancelled row no longer blocks availability (FetchForRoom and the
// CreateTx overlap guard only consider CONFIRMED rows).
func (r *ReservationRepo) CancelTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	const q = `UPDATE reservations SET status = 'CANCELLED' WHERE id = ? AND status = 'CONFIRMED'`
	res, err := tx.ExecContext(ctx, q, reservationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
