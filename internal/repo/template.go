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

// TemplateRepo defines the persistence operations for trip Templates.
type TemplateRepo interface {
	// Create inserts a new template and returns it with addresses embedded.
	Create(ctx context.Context, tpl domain.Template) (domain.Template, error)

	// List returns all templates, favorites first, then by name.
	List(ctx context.Context) ([]domain.Template, error)

	// ToggleFavorite inverts the favorite flag and returns the updated record.
	// Returns domain.ErrNotFound if the template does not exist.
	ToggleFavorite(ctx context.Context, id uuid.UUID) (domain.Template, error)
}

// pgTemplateRepo is the Postgres implementation of TemplateRepo.
type pgTemplateRepo struct {
	db db
}

// NewTemplateRepo constructs a TemplateRepo backed by the provided db connection.
func NewTemplateRepo(db db) TemplateRepo {
	return &pgTemplateRepo{db: db}
}

// templateSelect reads a template row aliased as t with both addresses.
// Column order must match scanTemplate.
const templateSelect = `
		SELECT t.id, t.name, t.purpose, t.project, t.notes_hint, t.favorite,
		       t.start_address_id, t.dest_address_id, t.created_at, t.updated_at,
		       sa.id, sa.label, sa.street, sa.zip, sa.city, sa.country, sa.favorite, sa.created_at, sa.updated_at,
		       da.id, da.label, da.street, da.zip, da.city, da.country, da.favorite, da.created_at, da.updated_at`

// Create inserts a template and reads it back joined with its addresses.
func (r *pgTemplateRepo) Create(ctx context.Context, tpl domain.Template) (domain.Template, error) {
	const q = `
		WITH t AS (
			INSERT INTO templates (name, purpose, project, notes_hint, favorite,
			                       start_address_id, dest_address_id)
			VALUES (@name, @purpose, @project, @notes_hint, @favorite,
			        @start_address_id, @dest_address_id)
			RETURNING *
		)` + templateSelect + `
		FROM t` + addressJoins

	args := pgx.NamedArgs{
		"name":             tpl.Name,
		"purpose":          string(tpl.Purpose),
		"project":          tpl.Project,
		"notes_hint":       tpl.NotesHint,
		"favorite":         tpl.Favorite,
		"start_address_id": tpl.StartAddressID,
		"dest_address_id":  tpl.DestAddressID,
	}

	result, err := scanTemplate(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Template{}, fmt.Errorf("repo.TemplateRepo.Create: %w", err)
	}
	return result, nil
}

// List returns every template ordered favorite-first, then by name.
func (r *pgTemplateRepo) List(ctx context.Context) ([]domain.Template, error) {
	const q = templateSelect + `
		FROM templates t` + addressJoins + `
		ORDER BY t.favorite DESC, t.name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TemplateRepo.List: %w", err)
	}
	defer rows.Close()

	templates := []domain.Template{}
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TemplateRepo.List: scan: %w", err)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TemplateRepo.List: rows: %w", err)
	}
	return templates, nil
}

// ToggleFavorite flips the favorite flag and returns the joined record.
func (r *pgTemplateRepo) ToggleFavorite(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	const q = `
		WITH t AS (
			UPDATE templates
			SET favorite = NOT favorite, updated_at = now()
			WHERE id = @id
			RETURNING *
		)` + templateSelect + `
		FROM t` + addressJoins

	result, err := scanTemplate(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Template{}, fmt.Errorf("repo.TemplateRepo.ToggleFavorite: %w", err)
	}
	return result, nil
}

// scanTemplate maps a templateSelect row into a domain.Template.
func scanTemplate(s scanner) (domain.Template, error) {
	var (
		tpl                domain.Template
		id, startID        pgtype.UUID
		destID             pgtype.UUID
		purpose            string
		project, notesHint pgtype.Text
		start, dest        addressCols
	)

	targets := []any{
		&id, &tpl.Name, &purpose, &project, &notesHint, &tpl.Favorite,
		&startID, &destID, &tpl.CreatedAt, &tpl.UpdatedAt,
	}
	targets = append(targets, start.targets()...)
	targets = append(targets, dest.targets()...)

	if err := s.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Template{}, domain.ErrNotFound
		}
		return domain.Template{}, err
	}

	tpl.ID = uuid.UUID(id.Bytes)
	tpl.Purpose = domain.Purpose(purpose)
	tpl.Project = textPtr(project)
	tpl.NotesHint = textPtr(notesHint)
	tpl.StartAddressID = uuid.UUID(startID.Bytes)
	tpl.DestAddressID = uuid.UUID(destID.Bytes)
	sa, da := start.address(), dest.address()
	tpl.StartAddress = &sa
	tpl.DestAddress = &da
	return tpl, nil
}
