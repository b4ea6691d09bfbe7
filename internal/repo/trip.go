package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/fahrtenbuch/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// Trips are immutable once created, so there is no Update or Delete.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record with both
	// addresses embedded. A reference to a missing address fails with the
	// store's foreign-key error.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip, addresses embedded.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns trips ordered by date descending, addresses embedded.
	// limit <= 0 returns every trip.
	List(ctx context.Context, limit int) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripSelect reads a trip row aliased as t together with its two addresses.
// Column order must match scanTrip.
const tripSelect = `
		SELECT t.id, t.date, t.purpose, t.project, t.notes,
		       t.start_km, t.end_km, t.distance,
		       t.start_address_id, t.dest_address_id, t.created_at,
		       sa.id, sa.label, sa.street, sa.zip, sa.city, sa.country, sa.favorite, sa.created_at, sa.updated_at,
		       da.id, da.label, da.street, da.zip, da.city, da.country, da.favorite, da.created_at, da.updated_at`

// addressJoins attaches the start (sa) and destination (da) addresses to t.
const addressJoins = `
		JOIN addresses sa ON sa.id = t.start_address_id
		JOIN addresses da ON da.id = t.dest_address_id`

// Create inserts a trip and reads it back joined with its addresses in one
// round trip.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH t AS (
			INSERT INTO trips (date, purpose, project, notes, start_km, end_km, distance,
			                   start_address_id, dest_address_id)
			VALUES (@date, @purpose, @project, @notes, @start_km, @end_km, @distance,
			        @start_address_id, @dest_address_id)
			RETURNING *
		)` + tripSelect + `
		FROM t` + addressJoins

	args := pgx.NamedArgs{
		"date":             trip.Date,
		"purpose":          string(trip.Purpose),
		"project":          trip.Project, // nil becomes NULL
		"notes":            trip.Notes,
		"start_km":         trip.StartKm,
		"end_km":           trip.EndKm,
		"distance":         trip.Distance,
		"start_address_id": trip.StartAddressID,
		"dest_address_id":  trip.DestAddressID,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = tripSelect + `
		FROM trips t` + addressJoins + `
		WHERE t.id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns trips newest first. LIMIT NULL means no limit in Postgres.
func (r *pgTripRepo) List(ctx context.Context, limit int) ([]domain.Trip, error) {
	const q = tripSelect + `
		FROM trips t` + addressJoins + `
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT @limit`

	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": lim})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}
	return trips, nil
}

// scanTrip maps a tripSelect row into a domain.Trip with embedded addresses.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t              domain.Trip
		id             pgtype.UUID
		startID        pgtype.UUID
		destID         pgtype.UUID
		purpose        string
		project, notes pgtype.Text
		start, dest    addressCols
	)

	targets := []any{
		&id, &t.Date, &purpose, &project, &notes,
		&t.StartKm, &t.EndKm, &t.Distance,
		&startID, &destID, &t.CreatedAt,
	}
	targets = append(targets, start.targets()...)
	targets = append(targets, dest.targets()...)

	if err := s.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Purpose = domain.Purpose(purpose)
	t.Project = textPtr(project)
	t.Notes = textPtr(notes)
	t.StartAddressID = uuid.UUID(startID.Bytes)
	t.DestAddressID = uuid.UUID(destID.Bytes)
	sa, da := start.address(), dest.address()
	t.StartAddress = &sa
	t.DestAddress = &da
	return t, nil
}

// addressCols holds scan targets for an address embedded in a joined row.
type addressCols struct {
	id                pgtype.UUID
	a                 domain.Address
	street, zip, city pgtype.Text
}

func (c *addressCols) targets() []any {
	return []any{
		&c.id, &c.a.Label, &c.street, &c.zip, &c.city,
		&c.a.Country, &c.a.Favorite, &c.a.CreatedAt, &c.a.UpdatedAt,
	}
}

func (c *addressCols) address() domain.Address {
	a := c.a
	a.ID = uuid.UUID(c.id.Bytes)
	a.Street = textPtr(c.street)
	a.Zip = textPtr(c.zip)
	a.City = textPtr(c.city)
	return a
}
