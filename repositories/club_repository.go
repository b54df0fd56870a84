package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/swimboards/recordboard/models"
)

var (
	ErrClubNotFound     = errors.New("club not found")
	ErrClubSlugConflict = errors.New("club slug conflict")
)

type ClubRepository interface {
	Create(ctx context.Context, exec SQLExecutor, club *models.Club) error
	GetByID(ctx context.Context, id string) (*models.Club, error)
	GetBySlug(ctx context.Context, slug string) (*models.Club, error)
	Update(ctx context.Context, club *models.Club) error
	UpdateLogoKey(ctx context.Context, clubID string, logoKey *string) error
	Delete(ctx context.Context, id string) error
}

type postgresClubRepository struct {
	db *sql.DB
}

func NewPostgresClubRepository(db *sql.DB) ClubRepository {
	return &postgresClubRepository{db: db}
}

func (r *postgresClubRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresClubRepository) Create(ctx context.Context, exec SQLExecutor, club *models.Club) error {
	executor := r.getExecutor(exec)
	club.ID = uuid.NewString()
	query := `
		INSERT INTO clubs (id, short_name, full_name, slug, logo_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		club.ID, club.ShortName, club.FullName, club.Slug, club.LogoKey,
	).Scan(&club.CreatedAt)

	return r.handleClubError(err)
}

const clubColumns = `id, short_name, full_name, slug, logo_key, created_at`

func (r *postgresClubRepository) scanClub(row *sql.Row) (*models.Club, error) {
	c := &models.Club{}
	err := row.Scan(&c.ID, &c.ShortName, &c.FullName, &c.Slug, &c.LogoKey, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresClubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`
	return r.scanClub(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresClubRepository) GetBySlug(ctx context.Context, slug string) (*models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE slug = $1`
	return r.scanClub(r.db.QueryRowContext(ctx, query, slug))
}

// Update changes the display names only. The slug is immutable after
// creation and is deliberately not part of the statement.
func (r *postgresClubRepository) Update(ctx context.Context, club *models.Club) error {
	query := `UPDATE clubs SET short_name = $1, full_name = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, club.ShortName, club.FullName, club.ID)
	if err != nil {
		return r.handleClubError(err)
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

func (r *postgresClubRepository) UpdateLogoKey(ctx context.Context, clubID string, logoKey *string) error {
	query := `UPDATE clubs SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, clubID)
	if err != nil {
		return fmt.Errorf("failed to update club logo key: %w", err)
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

func (r *postgresClubRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM clubs WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

func (r *postgresClubRepository) handleClubError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23505" && pqErr.Constraint == "clubs_slug_key" {
			return ErrClubSlugConflict
		}
	}
	return err
}
