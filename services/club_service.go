package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/repositories"
	"github.com/swimboards/recordboard/storage"
)

const maxShortNameLength = 10

type CreateClubInput struct {
	ShortName string `json:"short_name"`
	FullName  string `json:"full_name"`
	Slug      string `json:"slug"`
}

type UpdateClubInput struct {
	ShortName *string `json:"short_name"`
	FullName  *string `json:"full_name"`
}

type ClubService interface {
	CreateClub(ctx context.Context, input CreateClubInput, creatorID string) (*models.Club, error)
	GetClub(ctx context.Context, clubID, userID string) (*models.Club, error)
	UpdateClub(ctx context.Context, clubID string, input UpdateClubInput, userID string) (*models.Club, error)
	UploadLogo(ctx context.Context, clubID, userID, contentType string, file io.Reader) (*models.Club, error)
	ListClubsForUser(ctx context.Context, userID string) ([]models.Membership, error)
	ResolveSelectedClub(ctx context.Context, userID string) (*models.Club, error)
	SetSelectedClub(ctx context.Context, userID, clubID string) error
}

type clubService struct {
	db             repositories.TxBeginner
	clubRepo       repositories.ClubRepository
	membershipRepo repositories.MembershipRepository
	prefRepo       repositories.PrefRepository
	uploader       storage.FileUploader
	authz          authorizer
}

func NewClubService(
	db *sql.DB,
	clubRepo repositories.ClubRepository,
	membershipRepo repositories.MembershipRepository,
	prefRepo repositories.PrefRepository,
	uploader storage.FileUploader,
) ClubService {
	return &clubService{
		db:             repositories.TxDB{DB: db},
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		prefRepo:       prefRepo,
		uploader:       uploader,
		authz:          authorizer{membershipRepo: membershipRepo},
	}
}

func validateClubNames(shortName, fullName string) error {
	if shortName == "" {
		return ErrShortNameRequired
	}
	if len(shortName) > maxShortNameLength {
		return ErrShortNameTooLong
	}
	if fullName == "" {
		return ErrFullNameRequired
	}
	return nil
}

// CreateClub creates the club and its first owner membership in one
// transaction, so a club can never exist without an owner.
func (s *clubService) CreateClub(ctx context.Context, input CreateClubInput, creatorID string) (*models.Club, error) {
	if err := validateClubNames(input.ShortName, input.FullName); err != nil {
		return nil, err
	}
	if err := ValidateSlug(input.Slug); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	club := &models.Club{
		ShortName: input.ShortName,
		FullName:  input.FullName,
		Slug:      input.Slug,
	}
	if err := s.clubRepo.Create(ctx, tx, club); err != nil {
		if errors.Is(err, repositories.ErrClubSlugConflict) {
			return nil, ErrClubSlugConflict
		}
		return nil, fmt.Errorf("failed to create club: %w", err)
	}

	membership := &models.Membership{
		ClubID: club.ID,
		UserID: creatorID,
		Role:   models.RoleOwner,
	}
	if err := s.membershipRepo.Create(ctx, tx, membership); err != nil {
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return club, nil
}

func (s *clubService) GetClub(ctx context.Context, clubID, userID string) (*models.Club, error) {
	if _, err := s.authz.membership(ctx, clubID, userID); err != nil {
		return nil, err
	}
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	populateClubLogoURL(club, s.uploader)
	return club, nil
}

func (s *clubService) UpdateClub(ctx context.Context, clubID string, input UpdateClubInput, userID string) (*models.Club, error) {
	if _, err := s.authz.requireOwner(ctx, clubID, userID); err != nil {
		return nil, err
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	if input.ShortName != nil {
		club.ShortName = *input.ShortName
	}
	if input.FullName != nil {
		club.FullName = *input.FullName
	}
	if err := validateClubNames(club.ShortName, club.FullName); err != nil {
		return nil, err
	}

	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, err
	}
	populateClubLogoURL(club, s.uploader)
	return club, nil
}

func (s *clubService) UploadLogo(ctx context.Context, clubID, userID, contentType string, file io.Reader) (*models.Club, error) {
	if s.uploader == nil {
		return nil, errors.New("logo uploads are not configured")
	}
	if _, err := s.authz.requireOwner(ctx, clubID, userID); err != nil {
		return nil, err
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	ext, err := getExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	oldKey := club.LogoKey
	newKey := fmt.Sprintf("clubs/%s/logo%s", club.ID, ext)

	result, err := s.uploader.Upload(ctx, newKey, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload club logo: %w", err)
	}

	if err := s.clubRepo.UpdateLogoKey(ctx, club.ID, &result.Key); err != nil {
		return nil, err
	}

	if oldKey != nil && *oldKey != result.Key {
		// Best effort, the new logo is already live.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	club.LogoKey = &result.Key
	populateClubLogoURL(club, s.uploader)
	return club, nil
}

func (s *clubService) ListClubsForUser(ctx context.Context, userID string) ([]models.Membership, error) {
	memberships, err := s.membershipRepo.ListClubsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range memberships {
		populateClubLogoURL(memberships[i].Club, s.uploader)
	}
	return memberships, nil
}

// ResolveSelectedClub returns the user's persisted club selection, falling
// back to the first club of the membership list when the saved id is stale
// or absent. Returns ErrClubNotFound when the user has no clubs at all.
func (s *clubService) ResolveSelectedClub(ctx context.Context, userID string) (*models.Club, error) {
	memberships, err := s.membershipRepo.ListClubsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, ErrClubNotFound
	}

	savedID, err := s.prefRepo.GetSelectedClub(ctx, userID)
	if err != nil {
		return nil, err
	}
	if savedID != "" {
		for i := range memberships {
			if memberships[i].ClubID == savedID {
				populateClubLogoURL(memberships[i].Club, s.uploader)
				return memberships[i].Club, nil
			}
		}
	}

	club := memberships[0].Club
	populateClubLogoURL(club, s.uploader)
	return club, nil
}

func (s *clubService) SetSelectedClub(ctx context.Context, userID, clubID string) error {
	if _, err := s.authz.membership(ctx, clubID, userID); err != nil {
		return err
	}
	return s.prefRepo.SetSelectedClub(ctx, userID, clubID)
}
