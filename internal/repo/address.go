// Package repo contains all database access logic for the Fahrtenbuch API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/fahrtenbuch/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the Postgres SQLSTATE for a unique index violation.
const uniqueViolation = "23505"

// AddressRepo defines the persistence operations for Addresses.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type AddressRepo interface {
	// Create inserts a new address and returns the persisted record.
	// Returns domain.ErrDuplicate if another address already uses the label
	// (compared case-insensitively).
	Create(ctx context.Context, a domain.Address) (domain.Address, error)

	// GetByID retrieves a single address by its UUID primary key.
	// Returns domain.ErrNotFound if no address with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Address, error)

	// FindByLabel returns the address whose label equals label ignoring case.
	// Returns domain.ErrNotFound if there is none.
	FindByLabel(ctx context.Context, label string) (domain.Address, error)

	// List returns all addresses, favorites first, then by label.
	List(ctx context.Context) ([]domain.Address, error)

	// Update applies the set fields of patch in a single statement and returns
	// the updated record. Returns domain.ErrNotFound if the address does not exist.
	Update(ctx context.Context, id uuid.UUID, patch domain.AddressPatch) (domain.Address, error)

	// ToggleFavorite inverts the favorite flag and returns the updated record.
	// Returns domain.ErrNotFound if the address does not exist.
	ToggleFavorite(ctx context.Context, id uuid.UUID) (domain.Address, error)
}

// pgAddressRepo is the Postgres implementation of AddressRepo.
type pgAddressRepo struct {
	db db
}

// NewAddressRepo constructs an AddressRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewAddressRepo(db db) AddressRepo {
	return &pgAddressRepo{db: db}
}

const addressColumns = `id, label, street, zip, city, country, favorite, created_at, updated_at`

// Create inserts a new address row and returns the full persisted record.
func (r *pgAddressRepo) Create(ctx context.Context, a domain.Address) (domain.Address, error) {
	const q = `
		INSERT INTO addresses (label, street, zip, city, country, favorite)
		VALUES (@label, @street, @zip, @city, @country, @favorite)
		RETURNING ` + addressColumns

	args := pgx.NamedArgs{
		"label":    a.Label,
		"street":   a.Street, // nil becomes NULL
		"zip":      a.Zip,
		"city":     a.City,
		"country":  a.Country,
		"favorite": a.Favorite,
	}

	result, err := scanAddress(r.db.QueryRow(ctx, q, args))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Address{}, fmt.Errorf("repo.AddressRepo.Create: %w", domain.ErrDuplicate)
		}
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an address by primary key.
func (r *pgAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE id = @id`

	result, err := scanAddress(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.GetByID: %w", err)
	}
	return result, nil
}

// FindByLabel looks up an address by label ignoring case.
// The lower(label) expression matches the unique index, so this is an index scan.
// The ORDER BY only matters for databases that predate the unique index.
func (r *pgAddressRepo) FindByLabel(ctx context.Context, label string) (domain.Address, error) {
	const q = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE lower(label) = lower(@label)
		ORDER BY created_at
		LIMIT 1`

	result, err := scanAddress(r.db.QueryRow(ctx, q, pgx.NamedArgs{"label": label}))
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.FindByLabel: %w", err)
	}
	return result, nil
}

// List returns every address ordered favorite-first, then by label.
func (r *pgAddressRepo) List(ctx context.Context) ([]domain.Address, error) {
	const q = `
		SELECT ` + addressColumns + `
		FROM addresses
		ORDER BY favorite DESC, label ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.AddressRepo.List: %w", err)
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AddressRepo.List: scan: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AddressRepo.List: rows: %w", err)
	}
	return addresses, nil
}

// Update writes only the columns whose set_* flag is true.
// Using CASE keeps the statement static regardless of which fields change.
func (r *pgAddressRepo) Update(ctx context.Context, id uuid.UUID, patch domain.AddressPatch) (domain.Address, error) {
	const q = `
		UPDATE addresses
		SET street     = CASE WHEN @set_street::bool   THEN @street::text     ELSE street   END,
		    zip        = CASE WHEN @set_zip::bool      THEN @zip::text        ELSE zip      END,
		    city       = CASE WHEN @set_city::bool     THEN @city::text       ELSE city     END,
		    favorite   = CASE WHEN @set_favorite::bool THEN @favorite::bool   ELSE favorite END,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + addressColumns

	args := pgx.NamedArgs{
		"id":           id,
		"set_street":   patch.Street.Set,
		"street":       patch.Street.Value,
		"set_zip":      patch.Zip.Set,
		"zip":          patch.Zip.Value,
		"set_city":     patch.City.Set,
		"city":         patch.City.Value,
		"set_favorite": patch.Favorite.Set,
		"favorite":     patch.Favorite.Value,
	}

	result, err := scanAddress(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.Update: %w", err)
	}
	return result, nil
}

// ToggleFavorite flips the favorite flag in one statement.
func (r *pgAddressRepo) ToggleFavorite(ctx context.Context, id uuid.UUID) (domain.Address, error) {
	const q = `
		UPDATE addresses
		SET favorite = NOT favorite, updated_at = now()
		WHERE id = @id
		RETURNING ` + addressColumns

	result, err := scanAddress(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.ToggleFavorite: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanAddress maps a single database row into a domain.Address.
func scanAddress(s scanner) (domain.Address, error) {
	var (
		a                 domain.Address
		id                pgtype.UUID
		street, zip, city pgtype.Text
	)

	err := s.Scan(&id, &a.Label, &street, &zip, &city, &a.Country, &a.Favorite, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Address{}, domain.ErrNotFound
		}
		return domain.Address{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	a.Street = textPtr(street)
	a.Zip = textPtr(zip)
	a.City = textPtr(city)
	return a, nil
}

// textPtr converts a nullable text column into a *string.
func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
