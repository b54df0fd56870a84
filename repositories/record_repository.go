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
	ErrRecordNotFound    = errors.New("record not found")
	ErrRecordInvalidList = errors.New("record references an unknown record list")
)

type RecordRepository interface {
	Create(ctx context.Context, exec SQLExecutor, record *models.Record) error
	CreateBatch(ctx context.Context, exec SQLExecutor, records []models.Record) ([]models.Record, error)
	GetByID(ctx context.Context, id string) (*models.Record, error)
	ListByList(ctx context.Context, listID string) ([]models.Record, error)
	ListByClub(ctx context.Context, clubID string) ([]models.Record, error)
	Update(ctx context.Context, exec SQLExecutor, record *models.Record) error
	MarkSuperseded(ctx context.Context, exec SQLExecutor, listID string, id string, supersededBy string) error
	Delete(ctx context.Context, id string) error
}

type postgresRecordRepository struct {
	db *sql.DB
}

func NewPostgresRecordRepository(db *sql.DB) RecordRepository {
	return &postgresRecordRepository{db: db}
}

func (r *postgresRecordRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const recordColumns = `id, record_list_id, event_name, time_ms, swimmer_name,
	record_date, location, sort_order,
	is_national, is_current_national, is_provincial, is_current_provincial,
	is_split, is_relay_split, is_new, is_world_record,
	is_current, superseded_by, created_at`

func (r *postgresRecordRepository) Create(ctx context.Context, exec SQLExecutor, rec *models.Record) error {
	executor := r.getExecutor(exec)
	rec.ID = uuid.NewString()
	query := `
		INSERT INTO records (
			id, record_list_id, event_name, time_ms, swimmer_name,
			record_date, location, sort_order,
			is_national, is_current_national, is_provincial, is_current_provincial,
			is_split, is_relay_split, is_new, is_world_record,
			is_current, superseded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		rec.ID, rec.RecordListID, rec.EventName, rec.TimeMs, rec.SwimmerName,
		rec.RecordDate, rec.Location, rec.SortOrder,
		rec.IsNational, rec.IsCurrentNational, rec.IsProvincial, rec.IsCurrentProvincial,
		rec.IsSplit, rec.IsRelaySplit, rec.IsNew, rec.IsWorldRecord,
		rec.IsCurrent, rec.SupersededBy,
	).Scan(&rec.CreatedAt)

	return r.handleRecordError(err)
}

// CreateBatch inserts records one statement at a time inside the caller's
// transaction, returning the inserted rows with their generated ids.
func (r *postgresRecordRepository) CreateBatch(ctx context.Context, exec SQLExecutor, records []models.Record) ([]models.Record, error) {
	inserted := make([]models.Record, 0, len(records))
	for i := range records {
		rec := records[i]
		if err := r.Create(ctx, exec, &rec); err != nil {
			return nil, err
		}
		inserted = append(inserted, rec)
	}
	return inserted, nil
}

type recordScanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord applies the legacy normalization: is_current is nullable in
// the schema, and NULL means current. The rest of the code only ever sees
// an explicit boolean.
func scanRecord(row recordScanner, rec *models.Record) error {
	var isCurrent sql.NullBool
	err := row.Scan(
		&rec.ID, &rec.RecordListID, &rec.EventName, &rec.TimeMs, &rec.SwimmerName,
		&rec.RecordDate, &rec.Location, &rec.SortOrder,
		&rec.IsNational, &rec.IsCurrentNational, &rec.IsProvincial, &rec.IsCurrentProvincial,
		&rec.IsSplit, &rec.IsRelaySplit, &rec.IsNew, &rec.IsWorldRecord,
		&isCurrent, &rec.SupersededBy, &rec.CreatedAt,
	)
	if err != nil {
		return err
	}
	rec.IsCurrent = !isCurrent.Valid || isCurrent.Bool
	return nil
}

func (r *postgresRecordRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = $1`
	rec := &models.Record{}
	if err := scanRecord(r.db.QueryRowContext(ctx, query, id), rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *postgresRecordRepository) ListByList(ctx context.Context, listID string) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE record_list_id = $1 ORDER BY sort_order ASC`
	return r.queryRecords(ctx, query, listID)
}

// ListByClub returns every record of every list of the club, used by the
// club-wide CSV export. Ordered per list for stable output.
func (r *postgresRecordRepository) ListByClub(ctx context.Context, clubID string) ([]models.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE record_list_id IN (SELECT id FROM record_lists WHERE club_id = $1)
		ORDER BY record_list_id, sort_order ASC`
	return r.queryRecords(ctx, query, clubID)
}

func (r *postgresRecordRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var rec models.Record
		if scanErr := scanRecord(rows, &rec); scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *postgresRecordRepository) Update(ctx context.Context, exec SQLExecutor, rec *models.Record) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE records SET
			event_name = $1,
			time_ms = $2,
			swimmer_name = $3,
			record_date = $4,
			location = $5,
			sort_order = $6,
			is_national = $7,
			is_current_national = $8,
			is_provincial = $9,
			is_current_provincial = $10,
			is_split = $11,
			is_relay_split = $12,
			is_new = $13,
			is_world_record = $14
		WHERE id = $15 AND record_list_id = $16`

	result, err := executor.ExecContext(ctx, query,
		rec.EventName, rec.TimeMs, rec.SwimmerName, rec.RecordDate, rec.Location, rec.SortOrder,
		rec.IsNational, rec.IsCurrentNational, rec.IsProvincial, rec.IsCurrentProvincial,
		rec.IsSplit, rec.IsRelaySplit, rec.IsNew, rec.IsWorldRecord,
		rec.ID, rec.RecordListID,
	)
	if err != nil {
		return r.handleRecordError(err)
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

// MarkSuperseded demotes a current record to history, linking it forward
// to the record that replaced it. History rows are never mutated again.
// The list scope keeps the superseded_by chain inside one list.
func (r *postgresRecordRepository) MarkSuperseded(ctx context.Context, exec SQLExecutor, listID string, id string, supersededBy string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE records SET is_current = FALSE, superseded_by = $1 WHERE id = $2 AND record_list_id = $3`
	result, err := executor.ExecContext(ctx, query, supersededBy, id, listID)
	if err != nil {
		return r.handleRecordError(err)
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresRecordRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM records WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresRecordRepository) handleRecordError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "records_record_list_id_fkey":
				return ErrRecordInvalidList
			case "records_superseded_by_fkey":
				return ErrRecordNotFound
			}
		}
	}
	return err
}
