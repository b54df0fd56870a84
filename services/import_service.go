package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/swimboards/recordboard/csvparse"
	"github.com/swimboards/recordboard/live"
	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/repositories"
)

var csvExtension = regexp.MustCompile(`(?i)\.csv$`)

// ParseFilename derives a record list's title, slug and course type from
// an uploaded file name. Underscores become spaces in the title so names
// like "SCM_Female_18-24.csv" read naturally; course type is detected
// from the name with SCM winning over SCY over LCM, defaulting to LCM.
func ParseFilename(filename string) (title, slug string, course models.CourseType) {
	name := csvExtension.ReplaceAllString(filename, "")

	title = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	slug = Slugify(name)

	course = models.CourseLCM
	upper := strings.ToUpper(name)
	if strings.Contains(upper, "SCM") {
		course = models.CourseSCM
	} else if strings.Contains(upper, "SCY") {
		course = models.CourseSCY
	}
	return title, slug, course
}

// ImportFile is one CSV file of a bulk import. Title, Slug and
// CourseType override the values derived from Filename when set, so a
// caller can let the user correct the auto-detected configuration.
type ImportFile struct {
	Filename   string            `json:"filename"`
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	CourseType models.CourseType `json:"course_type"`
	Data       []byte            `json:"-"`
}

// ImportResult reports the outcome of a bulk import, one message per
// file.
type ImportResult struct {
	Success []string `json:"success"`
	Failed  []string `json:"failed"`
}

// ImportProgress is invoked before each file is processed with the
// 1-based position and the total file count.
type ImportProgress func(current, total int)

type ImportService interface {
	Run(ctx context.Context, clubID string, files []ImportFile, userID string, progress ImportProgress) (*ImportResult, error)
}

type importService struct {
	db         repositories.TxBeginner
	listRepo   repositories.RecordListRepository
	recordRepo repositories.RecordRepository
	clubRepo   repositories.ClubRepository
	hub        *live.Hub
	authz      authorizer
}

func NewImportService(
	db *sql.DB,
	listRepo repositories.RecordListRepository,
	recordRepo repositories.RecordRepository,
	clubRepo repositories.ClubRepository,
	membershipRepo repositories.MembershipRepository,
	hub *live.Hub,
) ImportService {
	return &importService{
		db:         repositories.TxDB{DB: db},
		listRepo:   listRepo,
		recordRepo: recordRepo,
		clubRepo:   clubRepo,
		hub:        hub,
		authz:      authorizer{membershipRepo: membershipRepo},
	}
}

// Run imports the files sequentially. One failing file never aborts the
// batch; it gets a Failed entry and the loop moves on. Each file that
// parses to at least one record becomes a new record list whose records
// keep the file's row order.
func (s *importService) Run(ctx context.Context, clubID string, files []ImportFile, userID string, progress ImportProgress) (*ImportResult, error) {
	if _, err := s.authz.requireEditor(ctx, clubID, userID); err != nil {
		return nil, err
	}

	result := &ImportResult{Success: []string{}, Failed: []string{}}

	for i, file := range files {
		if progress != nil {
			progress(i+1, len(files))
		}

		title, slug, course := ParseFilename(file.Filename)
		if file.Title != "" {
			title = file.Title
		}
		if file.Slug != "" {
			slug = file.Slug
		}
		if file.CourseType.Valid() {
			course = file.CourseType
		}

		parsed := csvparse.ParseRecords(string(file.Data))
		if len(parsed.Records) == 0 {
			result.Failed = append(result.Failed, fmt.Sprintf("%s: No valid records", title))
			continue
		}

		if err := s.importFile(ctx, clubID, title, slug, course, parsed.Records); err != nil {
			if errors.Is(err, repositories.ErrRecordListSlugConflict) {
				result.Failed = append(result.Failed, fmt.Sprintf("%s: a list with this slug already exists", title))
			} else {
				result.Failed = append(result.Failed, fmt.Sprintf("%s: Records failed - %v", title, err))
			}
			continue
		}
		result.Success = append(result.Success, fmt.Sprintf("%s: %d records", title, len(parsed.Records)))
	}

	s.notifyClub(ctx, clubID)
	return result, nil
}

// importFile creates the list and its records in one transaction, so a
// failed record insert does not leave an empty list behind.
func (s *importService) importFile(ctx context.Context, clubID, title, slug string, course models.CourseType, rows []csvparse.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	list := &models.RecordList{
		ClubID:     clubID,
		Title:      title,
		Slug:       slug,
		CourseType: course,
	}
	if err := s.listRepo.Create(ctx, tx, list); err != nil {
		return err
	}

	records := make([]models.Record, len(rows))
	for i, row := range rows {
		records[i] = models.Record{
			RecordListID:        list.ID,
			EventName:           row.EventName,
			TimeMs:              row.TimeMs,
			SwimmerName:         row.SwimmerName,
			RecordDate:          row.RecordDate,
			Location:            row.Location,
			SortOrder:           i,
			IsNational:          row.IsNational,
			IsCurrentNational:   row.IsCurrentNational,
			IsProvincial:        row.IsProvincial,
			IsCurrentProvincial: row.IsCurrentProvincial,
			IsSplit:             row.IsSplit,
			IsRelaySplit:        row.IsRelaySplit,
			IsNew:               row.IsNew,
			IsWorldRecord:       row.IsWorldRecord,
			IsCurrent:           true,
		}
	}
	if _, err := s.recordRepo.CreateBatch(ctx, tx, records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *importService) notifyClub(ctx context.Context, clubID string) {
	if s.hub == nil {
		return
	}
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return
	}
	s.hub.BroadcastToClub(club.Slug, live.Message{Type: live.EventListsUpdated})
}
