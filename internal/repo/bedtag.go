package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/openbeds/bedtags/internal/domain"
)

// BedTagRepo defines the persistence operations for bed tags and the
// bed_tag_map join table. The service layer depends on this interface, and
// the validator consumes its ListAll method as its lookup.
type BedTagRepo interface {
	// Create inserts a new tag. A zero tag.ID lets the database assign one.
	// Returns domain.ErrConflict if an active tag already holds the name.
	Create(ctx context.Context, tag domain.BedTag) (domain.BedTag, error)

	// GetByID retrieves a tag by primary key, voided or not.
	// Returns domain.ErrNotFound if no tag with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.BedTag, error)

	// GetByName retrieves a tag by name, case-insensitively. When several
	// tags share the name the active one wins, then the newest voided one.
	// Returns domain.ErrNotFound if no tag has that name.
	GetByName(ctx context.Context, name string) (domain.BedTag, error)

	// ListAll returns every tag, voided ones included, ordered by name.
	ListAll(ctx context.Context) ([]domain.BedTag, error)

	// ListPaged returns one page of tags matching f and the total match count.
	ListPaged(ctx context.Context, f domain.BedTagFilter, p domain.PaginationParams) ([]domain.BedTag, int64, error)

	// Update overwrites the name of an existing tag.
	// Returns domain.ErrNotFound or domain.ErrConflict.
	Update(ctx context.Context, tag domain.BedTag) (domain.BedTag, error)

	// Void marks a tag voided at the given time with a reason.
	// Returns domain.ErrNotFound if the tag does not exist.
	Void(ctx context.Context, id uuid.UUID, at time.Time, reason string) (domain.BedTag, error)

	// Unvoid clears the void marker.
	// Returns domain.ErrNotFound or domain.ErrConflict.
	Unvoid(ctx context.Context, id uuid.UUID) (domain.BedTag, error)

	// Delete removes a tag and its bed assignments permanently.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AssignToBed links a tag to a bed. Idempotent: no error if already linked.
	// Returns domain.ErrNotFound if the tag does not exist.
	AssignToBed(ctx context.Context, bedID, tagID uuid.UUID) error

	// UnassignFromBed unlinks a tag from a bed.
	// Returns domain.ErrNotFound if the tag is not linked to the bed.
	UnassignFromBed(ctx context.Context, bedID, tagID uuid.UUID) error

	// ListByBed returns all tags linked to a bed, ordered by name.
	ListByBed(ctx context.Context, bedID uuid.UUID) ([]domain.BedTag, error)
}

// pgBedTagRepo is the Postgres implementation of BedTagRepo.
type pgBedTagRepo struct {
	db db
}

// NewBedTagRepo constructs a BedTagRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBedTagRepo(db db) BedTagRepo {
	return &pgBedTagRepo{db: db}
}

const bedTagColumns = `id, name, date_voided, void_reason, created_at, updated_at`

// Create inserts a new tag row and returns the full persisted record.
func (r *pgBedTagRepo) Create(ctx context.Context, tag domain.BedTag) (domain.BedTag, error) {
	const q = `
		INSERT INTO bed_tags (id, name, date_voided, void_reason)
		VALUES (COALESCE(@id, gen_random_uuid()), @name, @date_voided, @void_reason)
		RETURNING ` + bedTagColumns

	args := pgx.NamedArgs{
		"id":          nullableUUID(tag.ID),
		"name":        tag.Name,
		"date_voided": tag.DateVoided, // nil becomes NULL
		"void_reason": tag.VoidReason,
	}

	result, err := scanBedTag(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("repo.BedTagRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

// GetByID fetches a single tag by primary key.
func (r *pgBedTagRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.BedTag, error) {
	const q = `SELECT ` + bedTagColumns + ` FROM bed_tags WHERE id = @id`

	result, err := scanBedTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("repo.BedTagRepo.GetByID: %w", mapPgError(err))
	}
	return result, nil
}

// GetByName prefers the active row, then the most recently voided one.
func (r *pgBedTagRepo) GetByName(ctx context.Context, name string) (domain.BedTag, error) {
	const q = `
		SELECT ` + bedTagColumns + `
		FROM bed_tags
		WHERE lower(name) = lower(@name)
		ORDER BY date_voided IS NULL DESC, date_voided DESC
		LIMIT 1`

	result, err := scanBedTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("repo.BedTagRepo.GetByName: %w", mapPgError(err))
	}
	return result, nil
}

// ListAll returns every tag ordered by name, then creation time.
func (r *pgBedTagRepo) ListAll(ctx context.Context) ([]domain.BedTag, error) {
	const q = `
		SELECT ` + bedTagColumns + `
		FROM bed_tags
		ORDER BY lower(name), created_at`

	tags, err := r.query(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.BedTagRepo.ListAll: %w", err)
	}
	return tags, nil
}

// ListPaged counts the matching rows, then fetches the requested page.
func (r *pgBedTagRepo) ListPaged(ctx context.Context, f domain.BedTagFilter, p domain.PaginationParams) ([]domain.BedTag, int64, error) {
	const where = `
		WHERE lower(name) LIKE lower(@prefix)
		  AND (@include_voided::boolean OR date_voided IS NULL)`

	args := pgx.NamedArgs{
		"prefix":         likePrefix(f.Prefix),
		"include_voided": f.IncludeVoided,
		"limit":          p.Limit,
		"offset":         p.Offset(),
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bed_tags`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BedTagRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + bedTagColumns + ` FROM bed_tags` + where + `
		ORDER BY lower(name), created_at
		LIMIT @limit OFFSET @offset`

	tags, err := r.query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BedTagRepo.ListPaged: %w", err)
	}
	return tags, total, nil
}

// Update renames a tag and bumps updated_at.
func (r *pgBedTagRepo) Update(ctx context.Context, tag domain.BedTag) (domain.BedTag, error) {
	const q = `
		UPDATE bed_tags
		SET name = @name, updated_at = now()
		WHERE id = @id
		RETURNING ` + bedTagColumns

	result, err := scanBedTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": tag.ID, "name": tag.Name}))
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("repo.BedTagRepo.Update: %w", mapPgError(err))
	}
	return result, nil
}

// Void sets date_voided and void_reason. Voiding an already voided tag
// overwrites the timestamp and reason.
func (r *pgBedTagRepo) Void(ctx context.Context, id uuid.UUID, at time.Time, reason string) (domain.BedTag, error) {
	const q = `
		UPDATE bed_tags
		SET date_voided = @at, void_reason = @reason, updated_at = now()
		WHERE id = @id
		RETURNING ` + bedTagColumns

	result, err := scanBedTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "at": at, "reason": reason}))
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("repo.BedTagRepo.Void: %w", mapPgError(err))
	}
	return result, nil
}

// Unvoid clears date_voided and void_reason. The partial unique index
// rejects the update if another active tag holds the name.
func (r *pgBedTagRepo) Unvoid(ctx context.Context, id uuid.UUID) (domain.BedTag, error) {
	const q = `
		UPDATE bed_tags
		SET date_voided = NULL, void_reason = '', updated_at = now()
		WHERE id = @id
		RETURNING ` + bedTagColumns

	result, err := scanBedTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("repo.BedTagRepo.Unvoid: %w", mapPgError(err))
	}
	return result, nil
}

// Delete removes the tag; bed_tag_map rows cascade.
func (r *pgBedTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bed_tags WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BedTagRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BedTagRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// AssignToBed links a tag to a bed. Idempotent via ON CONFLICT DO NOTHING.
func (r *pgBedTagRepo) AssignToBed(ctx context.Context, bedID, tagID uuid.UUID) error {
	const q = `
		INSERT INTO bed_tag_map (bed_id, tag_id)
		VALUES (@bed_id, @tag_id)
		ON CONFLICT (bed_id, tag_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"bed_id": bedID, "tag_id": tagID})
	if err != nil {
		return fmt.Errorf("repo.BedTagRepo.AssignToBed: %w", mapPgError(err))
	}
	return nil
}

// UnassignFromBed deletes the join row.
func (r *pgBedTagRepo) UnassignFromBed(ctx context.Context, bedID, tagID uuid.UUID) error {
	const q = `DELETE FROM bed_tag_map WHERE bed_id = @bed_id AND tag_id = @tag_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"bed_id": bedID, "tag_id": tagID})
	if err != nil {
		return fmt.Errorf("repo.BedTagRepo.UnassignFromBed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BedTagRepo.UnassignFromBed: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByBed returns all tags linked to a bed, ordered by name.
func (r *pgBedTagRepo) ListByBed(ctx context.Context, bedID uuid.UUID) ([]domain.BedTag, error) {
	const q = `
		SELECT t.id, t.name, t.date_voided, t.void_reason, t.created_at, t.updated_at
		FROM bed_tags t
		JOIN bed_tag_map m ON m.tag_id = t.id
		WHERE m.bed_id = @bed_id
		ORDER BY lower(t.name)`

	tags, err := r.query(ctx, q, pgx.NamedArgs{"bed_id": bedID})
	if err != nil {
		return nil, fmt.Errorf("repo.BedTagRepo.ListByBed: %w", err)
	}
	return tags, nil
}

// query runs a multi-row SELECT and scans every row. args may be nil.
// Always returns a non-nil slice on success.
func (r *pgBedTagRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.BedTag, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []domain.BedTag{}
	for rows.Next() {
		tag, err := scanBedTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return tags, nil
}

// scanBedTag maps a single database row into a domain.BedTag.
func scanBedTag(s scanner) (domain.BedTag, error) {
	var (
		t      domain.BedTag
		id     pgtype.UUID
		voided pgtype.Timestamptz
	)
	if err := s.Scan(&id, &t.Name, &voided, &t.VoidReason, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.BedTag{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	if voided.Valid {
		at := voided.Time
		t.DateVoided = &at
	}
	return t, nil
}

// nullableUUID returns nil for the zero UUID so COALESCE falls through to
// the database default.
func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
