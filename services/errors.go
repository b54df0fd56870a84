package services

import "errors"

// Shared errors consumed by the HTTP error mapper.
var (
	// Generic not-found
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrShortNameRequired     = errors.New("club short name is required")
	ErrShortNameTooLong      = errors.New("club short name must be 10 characters or fewer")
	ErrFullNameRequired      = errors.New("club full name is required")
	ErrSlugRequired          = errors.New("slug is required")
	ErrSlugInvalid           = errors.New("slug may only contain lowercase letters, digits and hyphens")
	ErrTitleRequired         = errors.New("record list title is required")
	ErrCourseTypeInvalid     = errors.New("course type must be one of LCM, SCM, SCY")
	ErrGenderInvalid         = errors.New("gender must be male or female")
	ErrRoleInvalid           = errors.New("role must be editor or viewer")
	ErrResetTokenInvalid     = errors.New("invalid or expired password reset token")
	ErrRecordNotBreakable    = errors.New("only a current record can be broken")

	// Conflicts
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrClubSlugConflict       = errors.New("a club with this slug already exists")
	ErrRecordListSlugConflict = errors.New("a record list with this slug already exists in this club")
	ErrAlreadyMember          = errors.New("user is already a member of this club")
	ErrLastOwner              = errors.New("a club must keep at least one owner")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrOwnerActionForbidden   = errors.New("only the club owner can perform this action")
	ErrEditActionForbidden    = errors.New("only club owners and editors can perform this action")

	// Entity-specific not-found
	ErrUserNotFound       = errors.New("user not found")
	ErrClubNotFound       = errors.New("club not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrRecordListNotFound = errors.New("record list not found")
	ErrRecordNotFound     = errors.New("record not found")
)
