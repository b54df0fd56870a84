package models

import "time"

// Club is the tenant root. The slug is globally unique and immutable
// after creation.
type Club struct {
	ID        string    `json:"id" db:"id"`
	ShortName string    `json:"short_name" db:"short_name"`
	FullName  string    `json:"full_name" db:"full_name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	RecordLists []RecordList `json:"record_lists,omitempty" db:"-"`
	Members     []Membership `json:"members,omitempty" db:"-"`
}
