package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/swimboards/recordboard/models"
)

var (
	ErrRecordListNotFound     = errors.New("record list not found")
	ErrRecordListSlugConflict = errors.New("record list slug conflict within club")
	ErrRecordListInvalidClub  = errors.New("record list references an unknown club")
)

type RecordListRepository interface {
	Create(ctx context.Context, exec SQLExecutor, list *models.RecordList) error
	GetByID(ctx context.Context, id string) (*models.RecordList, error)
	GetBySlug(ctx context.Context, clubID, slug string) (*models.RecordList, error)
	FirstByClub(ctx context.Context, clubID string) (*models.RecordList, error)
	ListByClub(ctx context.Context, clubID string) ([]models.RecordList, error)
	Update(ctx context.Context, list *models.RecordList) error
	Delete(ctx context.Context, id string) error
}

type postgresRecordListRepository struct {
	db *sql.DB
}

func NewPostgresRecordListRepository(db *sql.DB) RecordListRepository {
	return &postgresRecordListRepository{db: db}
}

func (r *postgresRecordListRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRecordListRepository) Create(ctx context.Context, exec SQLExecutor, list *models.RecordList) error {
	executor := r.getExecutor(exec)
	list.ID = uuid.NewString()
	query := `
		INSERT INTO record_lists (id, club_id, title, slug, course_type, gender)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		list.ID, list.ClubID, list.Title, list.Slug, list.CourseType, list.Gender,
	).Scan(&list.CreatedAt)

	return r.handleListError(err)
}

const listColumns = `id, club_id, title, slug, course_type, gender, created_at`

func (r *postgresRecordListRepository) scanList(row *sql.Row) (*models.RecordList, error) {
	l := &models.RecordList{}
	err := row.Scan(&l.ID, &l.ClubID, &l.Title, &l.Slug, &l.CourseType, &l.Gender, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordListNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *postgresRecordListRepository) GetByID(ctx context.Context, id string) (*models.RecordList, error) {
	query := `SELECT ` + listColumns + ` FROM record_lists WHERE id = $1`
	return r.scanList(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRecordListRepository) GetBySlug(ctx context.Context, clubID, slug string) (*models.RecordList, error) {
	query := `SELECT ` + listColumns + ` FROM record_lists WHERE club_id = $1 AND slug = $2`
	return r.scanList(r.db.QueryRowContext(ctx, query, clubID, slug))
}

// FirstByClub resolves the default list for public pages: the
// first-created list of the club.
func (r *postgresRecordListRepository) FirstByClub(ctx context.Context, clubID string) (*models.RecordList, error) {
	query := `SELECT ` + listColumns + ` FROM record_lists WHERE club_id = $1 ORDER BY created_at ASC LIMIT 1`
	return r.scanList(r.db.QueryRowContext(ctx, query, clubID))
}

func (r *postgresRecordListRepository) ListByClub(ctx context.Context, clubID string) ([]models.RecordList, error) {
	query := `
		SELECT l.id, l.club_id, l.title, l.slug, l.course_type, l.gender, l.created_at,
			COUNT(rec.id)
		FROM record_lists l
		LEFT JOIN records rec ON rec.record_list_id = l.id
		WHERE l.club_id = $1
		GROUP BY l.id
		ORDER BY l.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make([]models.RecordList, 0)
	for rows.Next() {
		var l models.RecordList
		if scanErr := rows.Scan(
			&l.ID, &l.ClubID, &l.Title, &l.Slug, &l.CourseType, &l.Gender, &l.CreatedAt,
			&l.RecordCount,
		); scanErr != nil {
			return nil, scanErr
		}
		lists = append(lists, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lists, nil
}

// Update changes title, course type and gender. Slug and club are immutable.
func (r *postgresRecordListRepository) Update(ctx context.Context, list *models.RecordList) error {
	query := `UPDATE record_lists SET title = $1, course_type = $2, gender = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, list.Title, list.CourseType, list.Gender, list.ID)
	if err != nil {
		return r.handleListError(err)
	}
	return checkAffectedRows(result, ErrRecordListNotFound)
}

// Delete removes the list. Records cascade at the schema level
// (records_record_list_id_fkey ON DELETE CASCADE).
func (r *postgresRecordListRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM record_lists WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordListNotFound)
}

func (r *postgresRecordListRepository) handleListError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "record_lists_club_id_slug_key" {
				return ErrRecordListSlugConflict
			}
		case "23503":
			if pqErr.Constraint == "record_lists_club_id_fkey" {
				return ErrRecordListInvalidClub
			}
		}
	}
	return err
}
