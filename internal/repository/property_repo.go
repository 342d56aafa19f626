// This file defines the Property model and repository methods for CRUD and
// lookup operations. A Property represents a listed place (house, flat,
// guesthouse) that can contain multiple bookable rooms. Only minimal fields
// should be exposed in public API responses; HostID and timestamps are for
// the host dashboard.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Property represents a row of the 'properties' table. Each property
// belongs to a single host and may contain multiple rooms.
type Property struct {
	ID          uint64
	HostID      uint64
	Name        string
	City        string
	Description *string
	IsActive    bool
	CreatedAt   string
	UpdatedAt   string
}

// ErrPropertyNotFound is returned when a property cannot be found in the DB.
var ErrPropertyNotFound = errors.New("property not found")

// PropertyRepo encapsulates all database queries related to properties.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo constructs a PropertyRepo with the provided DB handle.
func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

const propertyCols = "id, host_id, name, city, description, is_active, created_at, updated_at"

func scanProperty(row interface{ Scan(...any) error }) (*Property, error) {
	var p Property
	var desc sql.NullString
	if err := row.Scan(&p.ID, &p.HostID, &p.Name, &p.City, &desc, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		p.Description = &d
	}
	return &p, nil
}

// Create inserts a new property. On success the ID, timestamps and default
// flags are populated via a follow-up SELECT so callers receive a fully
// populated record.
func (r *PropertyRepo) Create(ctx context.Context, p *Property) error {
	const qInsert = "INSERT INTO properties (host_id, name, city, description) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, p.HostID, p.Name, p.City, p.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = "SELECT " + propertyCols + " FROM properties WHERE id = ?"
	got, err := scanProperty(r.db.QueryRowContext(ctx, qSelect, p.ID))
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByID fetches a property by its ID regardless of host. It returns
// ErrPropertyNotFound if no row is found.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*Property, error) {
	const q = "SELECT " + propertyCols + " FROM properties WHERE id = ?"
	p, err := scanProperty(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByIDAndHost fetches a property by id but only if it belongs to the
// specified host. If the property doesn't exist or is owned by someone
// else, ErrPropertyNotFound is returned.
func (r *PropertyRepo) GetByIDAndHost(ctx context.Context, id, hostID uint64) (*Property, error) {
	const q = "SELECT " + propertyCols + " FROM properties WHERE id = ? AND host_id = ?"
	p, err := scanProperty(r.db.QueryRowContext(ctx, q, id, hostID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListActive returns all active properties ordered by id. Used by the
// public browse endpoints.
func (r *PropertyRepo) ListActive(ctx context.Context) ([]*Property, error) {
	const q = "SELECT " + propertyCols + " FROM properties WHERE is_active = 1 ORDER BY id"
	return r.list(ctx, q)
}

// ListByHost returns all properties for a specific host ordered by id.
func (r *PropertyRepo) ListByHost(ctx context.Context, hostID uint64) ([]*Property, error) {
	const q = "SELECT " + propertyCols + " FROM properties WHERE host_id = ? ORDER BY id"
	return r.list(ctx, q, hostID)
}

func (r *PropertyRepo) list(ctx context.Context, q string, args ...any) ([]*Property, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes name, city and description if the property belongs to the
// provided host. It returns sql.ErrNoRows when no row is affected (not
// found / not owned).
func (r *PropertyRepo) Update(ctx context.Context, id, hostID uint64, name, city string, description *string) error {
	const q = "UPDATE properties SET name = ?, city = ?, description = ? WHERE id = ? AND host_id = ?"
	res, err := r.db.ExecContext(ctx, q, name, city, description, id, hostID)
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

// Deactivate soft-deletes a host's property so it disappears from public
// browsing while keeping booking history intact.
func (r *PropertyRepo) Deactivate(ctx context.Context, id, hostID uint64) error {
	const q = "UPDATE properties SET is_active = 0 WHERE id = ? AND host_id = ? AND is_active = 1"
	res, err := r.db.ExecContext(ctx, q, id, hostID)
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
