package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/repositories"
	"github.com/swimboards/recordboard/storage"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateSlug checks a caller-supplied slug. Generated slugs (Slugify)
// always pass.
func ValidateSlug(slug string) error {
	if slug == "" {
		return ErrSlugRequired
	}
	if !slugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}
	return nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the input and collapses every run of
// non-alphanumeric characters into a single hyphen.
func Slugify(s string) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func populateClubLogoURL(club *models.Club, uploader storage.FileUploader) {
	if club != nil && club.LogoKey != nil && *club.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*club.LogoKey)
		if url != "" {
			club.LogoURL = &url
		}
	}
}

func getExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	case "image/svg+xml":
		return ".svg", nil
	default:
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}

// authorizer centralizes the role checks every mutating service runs
// before touching club data.
type authorizer struct {
	membershipRepo repositories.MembershipRepository
}

func (a *authorizer) membership(ctx context.Context, clubID, userID string) (*models.Membership, error) {
	m, err := a.membershipRepo.GetByClubAndUser(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, ErrForbiddenOperation
		}
		return nil, err
	}
	return m, nil
}

func (a *authorizer) requireOwner(ctx context.Context, clubID, userID string) (*models.Membership, error) {
	m, err := a.membership(ctx, clubID, userID)
	if err != nil {
		return nil, err
	}
	if !m.Role.IsOwner() {
		return nil, ErrOwnerActionForbidden
	}
	return m, nil
}

func (a *authorizer) requireEditor(ctx context.Context, clubID, userID string) (*models.Membership, error) {
	m, err := a.membership(ctx, clubID, userID)
	if err != nil {
		return nil, err
	}
	if !m.Role.CanEdit() {
		return nil, ErrEditActionForbidden
	}
	return m, nil
}
