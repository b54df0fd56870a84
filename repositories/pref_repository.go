package repositories

import (
	"context"
	"database/sql"
	"errors"
)

// PrefRepository is the key-value slot behind the dashboard's persisted
// club selection. An absent row reads as the empty string; callers fall
// back to the first club of the user's membership list.
type PrefRepository interface {
	GetSelectedClub(ctx context.Context, userID string) (string, error)
	SetSelectedClub(ctx context.Context, userID, clubID string) error
}

type postgresPrefRepository struct {
	db *sql.DB
}

func NewPostgresPrefRepository(db *sql.DB) PrefRepository {
	return &postgresPrefRepository{db: db}
}

func (r *postgresPrefRepository) GetSelectedClub(ctx context.Context, userID string) (string, error) {
	query := `SELECT selected_club_id FROM user_prefs WHERE user_id = $1`
	var clubID sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return clubID.String, nil
}

func (r *postgresPrefRepository) SetSelectedClub(ctx context.Context, userID, clubID string) error {
	query := `
		INSERT INTO user_prefs (user_id, selected_club_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET selected_club_id = EXCLUDED.selected_club_id`
	_, err := r.db.ExecContext(ctx, query, userID, clubID)
	return err
}
