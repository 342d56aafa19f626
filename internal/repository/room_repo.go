// This file defines the Room model and repository methods. A Room is the
// bookable unit of a property; its price and fee schedule live in the
// rate_cards table (one row per room) and are loaded as a pricing.RateCard
// so the quote calculator receives exactly the stored configuration.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/rental-booking/internal/pricing"
)

// Room represents a row of the 'rooms' table.
type Room struct {
	ID         uint64
	PropertyID uint64
	Name       string
	MaxGuests  uint32
	IsActive   bool
	CreatedAt  string
	UpdatedAt  string
}

// ErrRoomNotFound is returned when a room cannot be found in the DB.
var ErrRoomNotFound = errors.New("room not found")

// ErrRateNotFound is returned when a room has no rate card yet; such a
// room cannot be quoted or booked.
var ErrRateNotFound = errors.New("room rate not configured")

// RoomRepo encapsulates all database queries related to rooms and their
// rate cards.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions that
// span repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomCols = "id, property_id, name, max_guests, is_active, created_at, updated_at"

func scanRoom(row interface{ Scan(...any) error }) (*Room, error) {
	var rm Room
	if err := row.Scan(&rm.ID, &rm.PropertyID, &rm.Name, &rm.MaxGuests, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		return nil, err
	}
	return &rm, nil
}

// Create inserts a new room and populates ID and timestamps.
func (r *RoomRepo) Create(ctx context.Context, rm *Room) error {
	const qInsert = "INSERT INTO rooms (property_id, name, max_guests) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, rm.PropertyID, rm.Name, rm.MaxGuests)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	const qSelect = "SELECT " + roomCols + " FROM rooms WHERE id = ?"
	got, err := scanRoom(r.db.QueryRowContext(ctx, qSelect, rm.ID))
	if err != nil {
		return err
	}
	*rm = *got
	return nil
}

// GetByID fetches a room by id. Returns ErrRoomNotFound when absent.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*Room, error) {
	const q = "SELECT " + roomCols + " FROM rooms WHERE id = ?"
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return rm, nil
}

// GetByIDForHost fetches a room by id and verifies, through its property,
// that it belongs to the given host. Returns ErrRoomNotFound when the room
// does not exist and ErrForbidden when it is owned by someone else.
func (r *RoomRepo) GetByIDForHost(ctx context.Context, id, hostID uint64) (*Room, error) {
	const q = `SELECT r.id, r.property_id, r.name, r.max_guests, r.is_active, r.created_at, r.updated_at, p.host_id
	           FROM rooms r
	           JOIN properties p ON p.id = r.property_id
	           WHERE r.id = ?`
	var rm Room
	var actualHostID uint64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rm.ID, &rm.PropertyID, &rm.Name, &rm.MaxGuests, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt,
		&actualHostID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if actualHostID != hostID {
		return nil, ErrForbidden
	}
	return &rm, nil
}

// ListByProperty returns rooms of a property ordered by id. When
// activeOnly is set, inactive rooms are filtered out (public browsing).
func (r *RoomRepo) ListByProperty(ctx context.Context, propertyID uint64, activeOnly bool) ([]*Room, error) {
	q := "SELECT " + roomCols + " FROM rooms WHERE property_id = ?"
	if activeOnly {
		q += " AND is_active = 1"
	}
	q += " ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes name and max_guests. Returns sql.ErrNoRows when the room
// is missing.
func (r *RoomRepo) Update(ctx context.Context, id uint64, name string, maxGuests uint32) error {
	const q = "UPDATE rooms SET name = ?, max_guests = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, name, maxGuests, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Deactivate soft-deletes a room so it stops being bookable while
// existing reservations keep their history.
func (r *RoomRepo) Deactivate(ctx context.Context, id uint64) error {
	const q = "UPDATE rooms SET is_active = 0 WHERE id = ? AND is_active = 1"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const rateCols = "room_id, nightly_rate_cents, cleaning_fee_cents, service_fee_mode, service_fee_cents, service_fee_bps, tax_rate_bps, security_deposit_cents, currency"

// GetRate loads the rate card of a room. Returns ErrRateNotFound when the
// host has not configured pricing yet.
func (r *RoomRepo) GetRate(ctx context.Context, roomID uint64) (pricing.RateCard, error) {
	const q = "SELECT " + rateCols + " FROM rate_cards WHERE room_id = ?"
	var rc pricing.RateCard
	err := r.db.QueryRowContext(ctx, q, roomID).Scan(
		&rc.RoomID, &rc.NightlyRateCents, &rc.CleaningFeeCents,
		&rc.ServiceFeeMode, &rc.ServiceFeeCents, &rc.ServiceFeeBps,
		&rc.TaxRateBps, &rc.SecurityDepositCents, &rc.Currency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.RateCard{}, ErrRateNotFound
		}
		return pricing.RateCard{}, err
	}
	return rc, nil
}

// UpsertRate stores a room's rate card, replacing any previous one. The
// card must already be validated by pricing.RateCard.Validate; this method
// only persists.
func (r *RoomRepo) UpsertRate(ctx context.Context, rc pricing.RateCard) error {
	const q = `INSERT INTO rate_cards
	           (` + rateCols + `)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             nightly_rate_cents = VALUES(nightly_rate_cents),
	             cleaning_fee_cents = VALUES(cleaning_fee_cents),
	             service_fee_mode = VALUES(service_fee_mode),
	             service_fee_cents = VALUES(service_fee_cents),
	             service_fee_bps = VALUES(service_fee_bps),
	             tax_rate_bps = VALUES(tax_rate_bps),
	             security_deposit_cents = VALUES(security_deposit_cents),
	             currency = VALUES(currency)`
	_, err := r.db.ExecContext(ctx, q,
		rc.RoomID, rc.NightlyRateCents, rc.CleaningFeeCents,
		string(rc.ServiceFeeMode), rc.ServiceFeeCents, rc.ServiceFeeBps,
		rc.TaxRateBps, rc.SecurityDepositCents, rc.Currency,
	)
	return err
}
