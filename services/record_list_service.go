package services

import (
	"context"
	"errors"
	"sort"

	"github.com/swimboards/recordboard/live"
	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/repositories"
)

// courseOrder is the fixed navigation order, not alphabetical.
var courseOrder = []models.CourseType{models.CourseSCM, models.CourseSCY, models.CourseLCM}

// ListGroup is one navigation bucket: a course type and gender pair with
// its lists. Gender nil is the trailing "ungrouped" bucket for lists
// created before the gender column existed.
type ListGroup struct {
	CourseType models.CourseType   `json:"course_type"`
	Gender     *models.Gender      `json:"gender"`
	Lists      []models.RecordList `json:"lists"`
}

// GroupLists orders a club's record lists for navigation: course type in
// SCM, SCY, LCM order, then gender male, female, ungrouped; lists inside
// a group are sorted by title.
func GroupLists(lists []models.RecordList) []ListGroup {
	male := models.GenderMale
	female := models.GenderFemale
	genderBuckets := []*models.Gender{&male, &female, nil}

	groups := make([]ListGroup, 0)
	for _, course := range courseOrder {
		for _, gender := range genderBuckets {
			var bucket []models.RecordList
			for _, l := range lists {
				if l.CourseType != course {
					continue
				}
				if gender == nil {
					if l.Gender == nil {
						bucket = append(bucket, l)
					}
				} else if l.Gender != nil && *l.Gender == *gender {
					bucket = append(bucket, l)
				}
			}
			if len(bucket) == 0 {
				continue
			}
			sort.SliceStable(bucket, func(i, j int) bool {
				return bucket[i].Title < bucket[j].Title
			})
			groups = append(groups, ListGroup{CourseType: course, Gender: gender, Lists: bucket})
		}
	}
	return groups
}

type CreateRecordListInput struct {
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	CourseType models.CourseType `json:"course_type"`
	Gender     *models.Gender    `json:"gender"`
}

type UpdateRecordListInput struct {
	Title      *string            `json:"title"`
	CourseType *models.CourseType `json:"course_type"`
	Gender     *models.Gender     `json:"gender"`
}

type RecordListService interface {
	CreateList(ctx context.Context, clubID string, input CreateRecordListInput, userID string) (*models.RecordList, error)
	GetList(ctx context.Context, listID, userID string) (*models.RecordList, error)
	ListForClub(ctx context.Context, clubID, userID string) ([]ListGroup, error)
	UpdateList(ctx context.Context, listID string, input UpdateRecordListInput, userID string) (*models.RecordList, error)
	DeleteList(ctx context.Context, listID, userID string) error
}

type recordListService struct {
	listRepo repositories.RecordListRepository
	clubRepo repositories.ClubRepository
	hub      *live.Hub
	authz    authorizer
}

func NewRecordListService(
	listRepo repositories.RecordListRepository,
	clubRepo repositories.ClubRepository,
	membershipRepo repositories.MembershipRepository,
	hub *live.Hub,
) RecordListService {
	return &recordListService{
		listRepo: listRepo,
		clubRepo: clubRepo,
		hub:      hub,
		authz:    authorizer{membershipRepo: membershipRepo},
	}
}

func validateListInput(title string, course models.CourseType, gender *models.Gender) error {
	if title == "" {
		return ErrTitleRequired
	}
	if !course.Valid() {
		return ErrCourseTypeInvalid
	}
	if gender != nil && *gender != models.GenderMale && *gender != models.GenderFemale {
		return ErrGenderInvalid
	}
	return nil
}

func (s *recordListService) CreateList(ctx context.Context, clubID string, input CreateRecordListInput, userID string) (*models.RecordList, error) {
	if _, err := s.authz.requireEditor(ctx, clubID, userID); err != nil {
		return nil, err
	}
	if err := validateListInput(input.Title, input.CourseType, input.Gender); err != nil {
		return nil, err
	}
	if input.Slug == "" {
		input.Slug = Slugify(input.Title)
	}
	if err := ValidateSlug(input.Slug); err != nil {
		return nil, err
	}

	list := &models.RecordList{
		ClubID:     clubID,
		Title:      input.Title,
		Slug:       input.Slug,
		CourseType: input.CourseType,
		Gender:     input.Gender,
	}
	if err := s.listRepo.Create(ctx, nil, list); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRecordListSlugConflict):
			return nil, ErrRecordListSlugConflict
		case errors.Is(err, repositories.ErrRecordListInvalidClub):
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	s.notifyClub(ctx, clubID)
	return list, nil
}

func (s *recordListService) GetList(ctx context.Context, listID, userID string) (*models.RecordList, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordListNotFound) {
			return nil, ErrRecordListNotFound
		}
		return nil, err
	}
	if _, err := s.authz.membership(ctx, list.ClubID, userID); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *recordListService) ListForClub(ctx context.Context, clubID, userID string) ([]ListGroup, error) {
	if _, err := s.authz.membership(ctx, clubID, userID); err != nil {
		return nil, err
	}
	lists, err := s.listRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return GroupLists(lists), nil
}

func (s *recordListService) UpdateList(ctx context.Context, listID string, input UpdateRecordListInput, userID string) (*models.RecordList, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordListNotFound) {
			return nil, ErrRecordListNotFound
		}
		return nil, err
	}
	if _, err := s.authz.requireEditor(ctx, list.ClubID, userID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		list.Title = *input.Title
	}
	if input.CourseType != nil {
		list.CourseType = *input.CourseType
	}
	if input.Gender != nil {
		list.Gender = input.Gender
	}
	if err := validateListInput(list.Title, list.CourseType, list.Gender); err != nil {
		return nil, err
	}

	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, err
	}
	s.notifyClub(ctx, list.ClubID)
	return list, nil
}

// DeleteList removes the list and, via the schema cascade, every current
// and historical record in it.
func (s *recordListService) DeleteList(ctx context.Context, listID, userID string) error {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordListNotFound) {
			return ErrRecordListNotFound
		}
		return err
	}
	if _, err := s.authz.requireEditor(ctx, list.ClubID, userID); err != nil {
		return err
	}

	if err := s.listRepo.Delete(ctx, listID); err != nil {
		return err
	}
	s.notifyClub(ctx, list.ClubID)
	return nil
}

func (s *recordListService) notifyClub(ctx context.Context, clubID string) {
	if s.hub == nil {
		return
	}
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return
	}
	s.hub.BroadcastToClub(club.Slug, live.Message{Type: live.EventListsUpdated})
}
