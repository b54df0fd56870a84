package services

import (
	"context"
	"errors"

	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/repositories"
	"github.com/swimboards/recordboard/storage"
	"github.com/swimboards/recordboard/swimtime"
)

// PublicListSummary is the unauthenticated view of a record list.
type PublicListSummary struct {
	Slug       string            `json:"slug"`
	Title      string            `json:"title"`
	CourseType models.CourseType `json:"course_type"`
	Gender     *models.Gender    `json:"gender"`
}

// PublicClubPage is the payload embedding clients render a club's board
// index from.
type PublicClubPage struct {
	Slug        string              `json:"slug"`
	ShortName   string              `json:"short_name"`
	FullName    string              `json:"full_name"`
	LogoURL     *string             `json:"logo_url"`
	RecordLists []PublicListSummary `json:"record_lists"`
}

// PublicRecordFlags mirrors the record's boolean markers.
type PublicRecordFlags struct {
	IsNational          bool `json:"is_national"`
	IsCurrentNational   bool `json:"is_current_national"`
	IsProvincial        bool `json:"is_provincial"`
	IsCurrentProvincial bool `json:"is_current_provincial"`
	IsSplit             bool `json:"is_split"`
	IsRelaySplit        bool `json:"is_relay_split"`
	IsNew               bool `json:"is_new"`
	IsWorldRecord       bool `json:"is_world_record"`
}

// PublicRecord is one record row in the public API. TimeFormatted is
// empty for break-record placeholders that have no time yet.
type PublicRecord struct {
	EventName     string            `json:"event_name"`
	SwimmerName   string            `json:"swimmer_name"`
	TimeMs        int               `json:"time_ms"`
	TimeFormatted string            `json:"time_formatted"`
	RecordDate    *string           `json:"record_date"`
	Location      *string           `json:"location"`
	Flags         PublicRecordFlags `json:"flags"`
	History       []PublicRecord    `json:"history,omitempty"`
}

// PublicClubRecords is one list's records with history, as served to
// embedding clients.
type PublicClubRecords struct {
	ClubSlug string            `json:"club_slug"`
	ClubName string            `json:"club_name"`
	List     PublicListSummary `json:"list"`
	Records  []PublicRecord    `json:"records"`
}

type PublicService interface {
	ClubPage(ctx context.Context, slug string) (*PublicClubPage, error)
	ClubRecords(ctx context.Context, slug, listSlug string) (*PublicClubRecords, error)
}

type publicService struct {
	clubRepo   repositories.ClubRepository
	listRepo   repositories.RecordListRepository
	recordRepo repositories.RecordRepository
	uploader   storage.FileUploader
}

func NewPublicService(
	clubRepo repositories.ClubRepository,
	listRepo repositories.RecordListRepository,
	recordRepo repositories.RecordRepository,
	uploader storage.FileUploader,
) PublicService {
	return &publicService{
		clubRepo:   clubRepo,
		listRepo:   listRepo,
		recordRepo: recordRepo,
		uploader:   uploader,
	}
}

func (s *publicService) getClub(ctx context.Context, slug string) (*models.Club, error) {
	club, err := s.clubRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	populateClubLogoURL(club, s.uploader)
	return club, nil
}

func listSummary(l *models.RecordList) PublicListSummary {
	return PublicListSummary{
		Slug:       l.Slug,
		Title:      l.Title,
		CourseType: l.CourseType,
		Gender:     l.Gender,
	}
}

func (s *publicService) ClubPage(ctx context.Context, slug string) (*PublicClubPage, error) {
	club, err := s.getClub(ctx, slug)
	if err != nil {
		return nil, err
	}

	lists, err := s.listRepo.ListByClub(ctx, club.ID)
	if err != nil {
		return nil, err
	}

	page := &PublicClubPage{
		Slug:        club.Slug,
		ShortName:   club.ShortName,
		FullName:    club.FullName,
		LogoURL:     club.LogoURL,
		RecordLists: make([]PublicListSummary, 0, len(lists)),
	}
	for i := range lists {
		page.RecordLists = append(page.RecordLists, listSummary(&lists[i]))
	}
	return page, nil
}

func publicRecord(r *models.Record) PublicRecord {
	formatted := ""
	if r.TimeMs > 0 {
		formatted = swimtime.FormatMs(r.TimeMs)
	}
	return PublicRecord{
		EventName:     r.EventName,
		SwimmerName:   r.SwimmerName,
		TimeMs:        r.TimeMs,
		TimeFormatted: formatted,
		RecordDate:    r.RecordDate,
		Location:      r.Location,
		Flags: PublicRecordFlags{
			IsNational:          r.IsNational,
			IsCurrentNational:   r.IsCurrentNational,
			IsProvincial:        r.IsProvincial,
			IsCurrentProvincial: r.IsCurrentProvincial,
			IsSplit:             r.IsSplit,
			IsRelaySplit:        r.IsRelaySplit,
			IsNew:               r.IsNew,
			IsWorldRecord:       r.IsWorldRecord,
		},
	}
}

// ClubRecords serves one list's records. An empty listSlug selects the
// club's oldest list, so an embed without a list parameter shows the
// first board.
func (s *publicService) ClubRecords(ctx context.Context, slug, listSlug string) (*PublicClubRecords, error) {
	club, err := s.getClub(ctx, slug)
	if err != nil {
		return nil, err
	}

	var list *models.RecordList
	if listSlug != "" {
		list, err = s.listRepo.GetBySlug(ctx, club.ID, listSlug)
	} else {
		list, err = s.listRepo.FirstByClub(ctx, club.ID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrRecordListNotFound) {
			return nil, ErrRecordListNotFound
		}
		return nil, err
	}

	records, err := s.recordRepo.ListByList(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	grouped := BuildHistory(records)
	out := make([]PublicRecord, 0, len(grouped))
	for i := range grouped {
		rec := publicRecord(&grouped[i].Record)
		rec.History = make([]PublicRecord, 0, len(grouped[i].History))
		for j := range grouped[i].History {
			rec.History = append(rec.History, publicRecord(&grouped[i].History[j]))
		}
		out = append(out, rec)
	}

	return &PublicClubRecords{
		ClubSlug: club.Slug,
		ClubName: club.ShortName,
		List:     listSummary(list),
		Records:  out,
	}, nil
}
