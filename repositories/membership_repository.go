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
	ErrMembershipNotFound    = errors.New("membership not found")
	ErrMembershipConflict    = errors.New("user is already a member of this club")
	ErrMembershipInvalidRef  = errors.New("membership references an unknown club or user")
)

type MembershipRepository interface {
	Create(ctx context.Context, exec SQLExecutor, membership *models.Membership) error
	GetByClubAndUser(ctx context.Context, clubID, userID string) (*models.Membership, error)
	ListByClub(ctx context.Context, clubID string) ([]models.Membership, error)
	ListClubsForUser(ctx context.Context, userID string) ([]models.Membership, error)
	UpdateRole(ctx context.Context, exec SQLExecutor, clubID, userID string, role models.ClubRole) error
	Delete(ctx context.Context, clubID, userID string) error
	CountOwners(ctx context.Context, clubID string) (int, error)
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMembershipRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Membership) error {
	executor := r.getExecutor(exec)
	m.ID = uuid.NewString()
	query := `
		INSERT INTO memberships (id, club_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query, m.ID, m.ClubID, m.UserID, m.Role).Scan(&m.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrMembershipConflict
			case "23503":
				return ErrMembershipInvalidRef
			}
		}
		return err
	}
	return nil
}

func (r *postgresMembershipRepository) GetByClubAndUser(ctx context.Context, clubID, userID string) (*models.Membership, error) {
	query := `
		SELECT id, club_id, user_id, role, created_at
		FROM memberships
		WHERE club_id = $1 AND user_id = $2`

	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, clubID, userID).Scan(
		&m.ID, &m.ClubID, &m.UserID, &m.Role, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMembershipRepository) ListByClub(ctx context.Context, clubID string) ([]models.Membership, error) {
	query := `
		SELECT m.id, m.club_id, m.user_id, m.role, m.created_at,
			u.first_name, u.last_name, u.email
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.club_id = $1
		ORDER BY m.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]models.Membership, 0)
	for rows.Next() {
		var m models.Membership
		var u models.User
		if scanErr := rows.Scan(
			&m.ID, &m.ClubID, &m.UserID, &m.Role, &m.CreatedAt,
			&u.FirstName, &u.LastName, &u.Email,
		); scanErr != nil {
			return nil, scanErr
		}
		u.ID = m.UserID
		m.User = &u
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListClubsForUser returns the user's memberships with the club attached,
// ordered by membership creation time. This is the role-aware club list
// behind the dashboard club switcher.
func (r *postgresMembershipRepository) ListClubsForUser(ctx context.Context, userID string) ([]models.Membership, error) {
	query := `
		SELECT m.id, m.club_id, m.user_id, m.role, m.created_at,
			c.short_name, c.full_name, c.slug, c.logo_key, c.created_at
		FROM memberships m
		JOIN clubs c ON c.id = m.club_id
		WHERE m.user_id = $1
		ORDER BY m.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]models.Membership, 0)
	for rows.Next() {
		var m models.Membership
		var c models.Club
		if scanErr := rows.Scan(
			&m.ID, &m.ClubID, &m.UserID, &m.Role, &m.CreatedAt,
			&c.ShortName, &c.FullName, &c.Slug, &c.LogoKey, &c.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		c.ID = m.ClubID
		m.Club = &c
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *postgresMembershipRepository) UpdateRole(ctx context.Context, exec SQLExecutor, clubID, userID string, role models.ClubRole) error {
	executor := r.getExecutor(exec)
	query := `UPDATE memberships SET role = $1 WHERE club_id = $2 AND user_id = $3`
	result, err := executor.ExecContext(ctx, query, role, clubID, userID)
	if err != nil {
		return fmt.Errorf("failed to update membership role: %w", err)
	}
	return checkAffectedRows(result, ErrMembershipNotFound)
}

func (r *postgresMembershipRepository) Delete(ctx context.Context, clubID, userID string) error {
	query := `DELETE FROM memberships WHERE club_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, clubID, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMembershipNotFound)
}

func (r *postgresMembershipRepository) CountOwners(ctx context.Context, clubID string) (int, error) {
	query := `SELECT COUNT(*) FROM memberships WHERE club_id = $1 AND role = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, clubID, models.RoleOwner).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
