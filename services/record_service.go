package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/swimboards/recordboard/live"
	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/repositories"
	"github.com/swimboards/recordboard/swimtime"
)

// RecordWithHistory is a current record together with the superseded
// records it replaced, newest first.
type RecordWithHistory struct {
	models.Record
	TimeFormatted string          `json:"time_formatted"`
	History       []models.Record `json:"history"`
}

// BuildHistory reconstructs the display view from a list's full record
// set: current records keep their incoming (sort_order) order, and each
// carries the historical records linked to it via superseded_by, sorted
// by record date descending with undated entries last. One O(n) grouping
// pass; nothing is stored pre-joined.
func BuildHistory(records []models.Record) []RecordWithHistory {
	historyByRecordID := make(map[string][]models.Record)
	current := make([]models.Record, 0, len(records))

	for _, r := range records {
		if r.IsCurrent {
			current = append(current, r)
			continue
		}
		if r.SupersededBy != nil {
			historyByRecordID[*r.SupersededBy] = append(historyByRecordID[*r.SupersededBy], r)
		}
	}

	for _, group := range historyByRecordID {
		sort.SliceStable(group, func(i, j int) bool {
			a, b := group[i].RecordDate, group[j].RecordDate
			switch {
			case a == nil && b == nil:
				return false
			case a == nil:
				return false // undated sorts after dated
			case b == nil:
				return true
			default:
				// Normalized dates are zero-padded, so lexicographic
				// comparison is date order.
				return *a > *b
			}
		})
	}

	result := make([]RecordWithHistory, 0, len(current))
	for _, r := range current {
		history := historyByRecordID[r.ID]
		if history == nil {
			history = []models.Record{}
		}
		result = append(result, RecordWithHistory{
			Record:        r,
			TimeFormatted: swimtime.FormatMs(r.TimeMs),
			History:       history,
		})
	}
	return result
}

// RecordInput is one row of a batch save. A nil ID means insert. A
// non-nil BreaksRecordID marks the insert as the replacement created by
// the break-record action: once the new row is persisted, the broken
// record is demoted to history and linked to it.
type RecordInput struct {
	ID             *string `json:"id"`
	BreaksRecordID *string `json:"breaks_record_id"`

	EventName   string  `json:"event_name"`
	TimeMs      int     `json:"time_ms"`
	SwimmerName string  `json:"swimmer_name"`
	RecordDate  *string `json:"record_date"`
	Location    *string `json:"location"`
	SortOrder   int     `json:"sort_order"`

	IsNational          bool `json:"is_national"`
	IsCurrentNational   bool `json:"is_current_national"`
	IsProvincial        bool `json:"is_provincial"`
	IsCurrentProvincial bool `json:"is_current_provincial"`
	IsSplit             bool `json:"is_split"`
	IsRelaySplit        bool `json:"is_relay_split"`
	IsNew               bool `json:"is_new"`
	IsWorldRecord       bool `json:"is_world_record"`
}

type RecordService interface {
	ListWithHistory(ctx context.Context, listID, userID string) ([]RecordWithHistory, error)
	SaveRecords(ctx context.Context, listID string, inputs []RecordInput, userID string) ([]RecordWithHistory, error)
	BreakRecord(ctx context.Context, listID, recordID, userID string) (*RecordInput, error)
	DeleteRecord(ctx context.Context, recordID, userID string) error
	ExportListCSV(ctx context.Context, listID, userID string) ([]byte, error)
	ExportClubCSV(ctx context.Context, clubID, userID string) ([]byte, error)
}

type recordService struct {
	db         repositories.TxBeginner
	recordRepo repositories.RecordRepository
	listRepo   repositories.RecordListRepository
	clubRepo   repositories.ClubRepository
	hub        *live.Hub
	authz      authorizer
}

func NewRecordService(
	db *sql.DB,
	recordRepo repositories.RecordRepository,
	listRepo repositories.RecordListRepository,
	clubRepo repositories.ClubRepository,
	membershipRepo repositories.MembershipRepository,
	hub *live.Hub,
) RecordService {
	return &recordService{
		db:         repositories.TxDB{DB: db},
		recordRepo: recordRepo,
		listRepo:   listRepo,
		clubRepo:   clubRepo,
		hub:        hub,
		authz:      authorizer{membershipRepo: membershipRepo},
	}
}

func (s *recordService) getList(ctx context.Context, listID string) (*models.RecordList, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordListNotFound) {
			return nil, ErrRecordListNotFound
		}
		return nil, err
	}
	return list, nil
}

func (s *recordService) ListWithHistory(ctx context.Context, listID, userID string) ([]RecordWithHistory, error) {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.membership(ctx, list.ClubID, userID); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return BuildHistory(records), nil
}

func recordFromInput(listID string, input RecordInput) models.Record {
	return models.Record{
		RecordListID:        listID,
		EventName:           input.EventName,
		TimeMs:              input.TimeMs,
		SwimmerName:         input.SwimmerName,
		RecordDate:          input.RecordDate,
		Location:            input.Location,
		SortOrder:           input.SortOrder,
		IsNational:          input.IsNational,
		IsCurrentNational:   input.IsCurrentNational,
		IsProvincial:        input.IsProvincial,
		IsCurrentProvincial: input.IsCurrentProvincial,
		IsSplit:             input.IsSplit,
		IsRelaySplit:        input.IsRelaySplit,
		IsNew:               input.IsNew,
		IsWorldRecord:       input.IsWorldRecord,
		IsCurrent:           true,
	}
}

// SaveRecords persists a batch of inserts and in-place updates in one
// transaction. Inserts carrying BreaksRecordID complete the break-record
// flow: the broken row is demoted and linked forward only after the new
// row's id is known.
func (s *recordService) SaveRecords(ctx context.Context, listID string, inputs []RecordInput, userID string) ([]RecordWithHistory, error) {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.requireEditor(ctx, list.ClubID, userID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, input := range inputs {
		if input.ID == nil {
			rec := recordFromInput(listID, input)
			if err := s.recordRepo.Create(ctx, tx, &rec); err != nil {
				return nil, err
			}
			if input.BreaksRecordID != nil {
				if err := s.recordRepo.MarkSuperseded(ctx, tx, listID, *input.BreaksRecordID, rec.ID); err != nil {
					if errors.Is(err, repositories.ErrRecordNotFound) {
						return nil, ErrRecordNotFound
					}
					return nil, err
				}
			}
			continue
		}

		rec := recordFromInput(listID, input)
		rec.ID = *input.ID
		if err := s.recordRepo.Update(ctx, tx, &rec); err != nil {
			if errors.Is(err, repositories.ErrRecordNotFound) {
				return nil, ErrRecordNotFound
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notifyClub(ctx, list.ClubID)

	records, err := s.recordRepo.ListByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return BuildHistory(records), nil
}

// BreakRecord validates the target and returns the Active placeholder
// that will replace it: same event and sort order, no time, flagged as
// new. The old record stays current until the placeholder is persisted
// through SaveRecords, which links the two.
func (s *recordService) BreakRecord(ctx context.Context, listID, recordID, userID string) (*RecordInput, error) {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.requireEditor(ctx, list.ClubID, userID); err != nil {
		return nil, err
	}

	old, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if old.RecordListID != listID {
		return nil, ErrRecordNotFound
	}
	if !old.IsCurrent {
		return nil, ErrRecordNotBreakable
	}

	return &RecordInput{
		BreaksRecordID: &old.ID,
		EventName:      old.EventName,
		SortOrder:      old.SortOrder,
		TimeMs:         0,
		IsNew:          true,
	}, nil
}

func (s *recordService) DeleteRecord(ctx context.Context, recordID, userID string) error {
	rec, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	list, err := s.getList(ctx, rec.RecordListID)
	if err != nil {
		return err
	}
	if _, err := s.authz.requireEditor(ctx, list.ClubID, userID); err != nil {
		return err
	}

	if err := s.recordRepo.Delete(ctx, recordID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	s.notifyClub(ctx, list.ClubID)
	return nil
}

var exportHeader = []string{
	"Record List", "Event", "Time", "Swimmer", "Date", "Location",
	"is_world_record", "is_national", "is_current_national",
	"is_provincial", "is_current_provincial", "is_split", "is_relay_split", "is_new",
}

func exportFlag(v bool) string {
	if v {
		return "true"
	}
	return ""
}

func writeExportRows(w *csv.Writer, listTitle string, records []models.Record) error {
	for _, r := range records {
		row := []string{
			listTitle,
			r.EventName,
			swimtime.FormatMs(r.TimeMs),
			r.SwimmerName,
			derefString(r.RecordDate),
			derefString(r.Location),
			exportFlag(r.IsWorldRecord),
			exportFlag(r.IsNational),
			exportFlag(r.IsCurrentNational),
			exportFlag(r.IsProvincial),
			exportFlag(r.IsCurrentProvincial),
			exportFlag(r.IsSplit),
			exportFlag(r.IsRelaySplit),
			exportFlag(r.IsNew),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// ExportListCSV emits one flat row per record, current and historical
// alike, in the list's display order.
func (s *recordService) ExportListCSV(ctx context.Context, listID, userID string) ([]byte, error) {
	list, err := s.getList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authz.membership(ctx, list.ClubID, userID); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListByList(ctx, listID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := writeExportRows(w, list.Title, records); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *recordService) ExportClubCSV(ctx context.Context, clubID, userID string) ([]byte, error) {
	if _, err := s.authz.membership(ctx, clubID, userID); err != nil {
		return nil, err
	}

	var (
		lists   []models.RecordList
		records []models.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lists, err = s.listRepo.ListByClub(gctx, clubID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.recordRepo.ListByClub(gctx, clubID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(lists))
	for _, l := range lists {
		titles[l.ID] = l.Title
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	byList := make(map[string][]models.Record)
	for _, r := range records {
		byList[r.RecordListID] = append(byList[r.RecordListID], r)
	}
	for _, l := range lists {
		if err := writeExportRows(w, titles[l.ID], byList[l.ID]); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *recordService) notifyClub(ctx context.Context, clubID string) {
	if s.hub == nil {
		return
	}
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return
	}
	s.hub.BroadcastToClub(club.Slug, live.Message{Type: live.EventRecordsUpdated})
}
