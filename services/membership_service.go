package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/repositories"
)

type MembershipService interface {
	ListMembers(ctx context.Context, clubID, currentUserID string) ([]models.Membership, error)
	AddMember(ctx context.Context, clubID, email string, role models.ClubRole, currentUserID string) (*models.Membership, error)
	UpdateRole(ctx context.Context, clubID, userID string, role models.ClubRole, currentUserID string) error
	RemoveMember(ctx context.Context, clubID, userID, currentUserID string) error
	TransferOwnership(ctx context.Context, clubID, newOwnerID, currentUserID string) error
}

type membershipService struct {
	db             repositories.TxBeginner
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	authz          authorizer
}

func NewMembershipService(
	db *sql.DB,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
) MembershipService {
	return &membershipService{
		db:             repositories.TxDB{DB: db},
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		authz:          authorizer{membershipRepo: membershipRepo},
	}
}

func (s *membershipService) ListMembers(ctx context.Context, clubID, currentUserID string) ([]models.Membership, error) {
	if _, err := s.authz.membership(ctx, clubID, currentUserID); err != nil {
		return nil, err
	}
	return s.membershipRepo.ListByClub(ctx, clubID)
}

// AddMember grants an existing user a role in the club. Only editor and
// viewer can be granted this way; ownership moves only via transfer.
func (s *membershipService) AddMember(ctx context.Context, clubID, email string, role models.ClubRole, currentUserID string) (*models.Membership, error) {
	if role != models.RoleEditor && role != models.RoleViewer {
		return nil, ErrRoleInvalid
	}
	if _, err := s.authz.requireOwner(ctx, clubID, currentUserID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	membership := &models.Membership{
		ClubID: clubID,
		UserID: user.ID,
		Role:   role,
	}
	if err := s.membershipRepo.Create(ctx, nil, membership); err != nil {
		if errors.Is(err, repositories.ErrMembershipConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	user.PasswordHash = ""
	membership.User = user
	return membership, nil
}

func (s *membershipService) UpdateRole(ctx context.Context, clubID, userID string, role models.ClubRole, currentUserID string) error {
	if role != models.RoleEditor && role != models.RoleViewer {
		return ErrRoleInvalid
	}
	if _, err := s.authz.requireOwner(ctx, clubID, currentUserID); err != nil {
		return err
	}

	target, err := s.membershipRepo.GetByClubAndUser(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return ErrMembershipNotFound
		}
		return err
	}

	// Demoting an owner would bypass the transfer flow and can strand the
	// club without one.
	if target.Role.IsOwner() {
		return ErrLastOwner
	}

	return s.membershipRepo.UpdateRole(ctx, nil, clubID, userID, role)
}

func (s *membershipService) RemoveMember(ctx context.Context, clubID, userID, currentUserID string) error {
	if _, err := s.authz.requireOwner(ctx, clubID, currentUserID); err != nil {
		return err
	}

	target, err := s.membershipRepo.GetByClubAndUser(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return ErrMembershipNotFound
		}
		return err
	}
	if target.Role.IsOwner() {
		owners, err := s.membershipRepo.CountOwners(ctx, clubID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}

	return s.membershipRepo.Delete(ctx, clubID, userID)
}

// TransferOwnership promotes the target member to owner and demotes the
// current owner to editor, atomically.
func (s *membershipService) TransferOwnership(ctx context.Context, clubID, newOwnerID, currentUserID string) error {
	if _, err := s.authz.requireOwner(ctx, clubID, currentUserID); err != nil {
		return err
	}
	if newOwnerID == currentUserID {
		return ErrValidationFailed
	}

	if _, err := s.membershipRepo.GetByClubAndUser(ctx, clubID, newOwnerID); err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return ErrMembershipNotFound
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.membershipRepo.UpdateRole(ctx, tx, clubID, newOwnerID, models.RoleOwner); err != nil {
		return err
	}
	if err := s.membershipRepo.UpdateRole(ctx, tx, clubID, currentUserID, models.RoleEditor); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
