package services

import (
	"context"
	"errors"
	"testing"

	"github.com/swimboards/recordboard/models"
)

func newClubFixture(clubs ...*models.Club) (ClubService, *fakeMembershipRepo, *fakePrefRepo) {
	membershipRepo := &fakeMembershipRepo{}
	prefRepo := &fakePrefRepo{}
	clubRepo := &fakeClubRepo{clubs: clubs}
	svc := &clubService{
		db:             fakeTxBeginner{},
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		prefRepo:       prefRepo,
		authz:          authorizer{membershipRepo: membershipRepo},
	}
	return svc, membershipRepo, prefRepo
}

func addMembershipWithClub(repo *fakeMembershipRepo, club *models.Club, userID string, role models.ClubRole) {
	repo.memberships = append(repo.memberships, &models.Membership{
		ClubID: club.ID,
		UserID: userID,
		Role:   role,
		Club:   club,
	})
}

func TestResolveSelectedClubUsesSavedSelection(t *testing.T) {
	clubA := &models.Club{ID: "club-a", Slug: "alpha"}
	clubB := &models.Club{ID: "club-b", Slug: "beta"}
	svc, membershipRepo, prefRepo := newClubFixture(clubA, clubB)
	addMembershipWithClub(membershipRepo, clubA, "user-1", models.RoleOwner)
	addMembershipWithClub(membershipRepo, clubB, "user-1", models.RoleViewer)
	prefRepo.SetSelectedClub(context.Background(), "user-1", "club-b")

	club, err := svc.ResolveSelectedClub(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if club.ID != "club-b" {
		t.Errorf("expected saved club-b, got %s", club.ID)
	}
}

func TestResolveSelectedClubFallsBackWhenSelectionStale(t *testing.T) {
	clubA := &models.Club{ID: "club-a", Slug: "alpha"}
	svc, membershipRepo, prefRepo := newClubFixture(clubA)
	addMembershipWithClub(membershipRepo, clubA, "user-1", models.RoleOwner)
	// user was removed from this club since selecting it
	prefRepo.SetSelectedClub(context.Background(), "user-1", "club-gone")

	club, err := svc.ResolveSelectedClub(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if club.ID != "club-a" {
		t.Errorf("expected fallback to first membership, got %s", club.ID)
	}
}

func TestResolveSelectedClubNoMemberships(t *testing.T) {
	svc, _, _ := newClubFixture()

	if _, err := svc.ResolveSelectedClub(context.Background(), "user-1"); !errors.Is(err, ErrClubNotFound) {
		t.Fatalf("expected ErrClubNotFound, got %v", err)
	}
}

func TestSetSelectedClubRequiresMembership(t *testing.T) {
	clubA := &models.Club{ID: "club-a", Slug: "alpha"}
	svc, _, _ := newClubFixture(clubA)

	if err := svc.SetSelectedClub(context.Background(), "user-1", "club-a"); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("expected ErrForbiddenOperation, got %v", err)
	}
}

func TestUpdateClubValidation(t *testing.T) {
	clubA := &models.Club{ID: "club-a", Slug: "alpha", ShortName: "ASC", FullName: "Alpha Swim Club"}
	svc, membershipRepo, _ := newClubFixture(clubA)
	addMembershipWithClub(membershipRepo, clubA, "owner-1", models.RoleOwner)
	addMembershipWithClub(membershipRepo, clubA, "editor-1", models.RoleEditor)

	longName := "MORETHANTENCHARS"
	if _, err := svc.UpdateClub(context.Background(), "club-a", UpdateClubInput{ShortName: &longName}, "owner-1"); !errors.Is(err, ErrShortNameTooLong) {
		t.Fatalf("expected ErrShortNameTooLong, got %v", err)
	}

	name := "Alpha"
	if _, err := svc.UpdateClub(context.Background(), "club-a", UpdateClubInput{ShortName: &name}, "editor-1"); !errors.Is(err, ErrOwnerActionForbidden) {
		t.Fatalf("expected ErrOwnerActionForbidden, got %v", err)
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"rapids", "scm-female-18-24", "a1"}
	for _, s := range valid {
		if err := ValidateSlug(s); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, want nil", s, err)
		}
	}
	invalid := []string{"", "Rapids", "has space", "-leading", "trailing-", "double--hyphen"}
	for _, s := range invalid {
		if err := ValidateSlug(s); err == nil {
			t.Errorf("ValidateSlug(%q) should fail", s)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"SCM Female 18-24", "scm-female-18-24"},
		{"  Rapids!  ", "rapids"},
		{"Boys & Girls", "boys-girls"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateClubMakesCreatorOwner(t *testing.T) {
	svc, membershipRepo, _ := newClubFixture()

	club, err := svc.CreateClub(context.Background(), CreateClubInput{
		ShortName: "RSC", FullName: "Rapids Swim Club", Slug: "rapids",
	}, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if club.ID == "" || club.Slug != "rapids" {
		t.Errorf("club not persisted: %+v", club)
	}

	m, err := membershipRepo.GetByClubAndUser(context.Background(), club.ID, "user-1")
	if err != nil {
		t.Fatalf("creator has no membership: %v", err)
	}
	if m.Role != models.RoleOwner {
		t.Errorf("creator should be owner, got %s", m.Role)
	}
}
