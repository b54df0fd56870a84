package models

import "time"

// Record is one best-time entry within a record list. A record stays
// current until the break-record action demotes it to history, at which
// point IsCurrent flips to false and SupersededBy points at the record
// that replaced it.
type Record struct {
	ID           string  `json:"id" db:"id"`
	RecordListID string  `json:"record_list_id" db:"record_list_id"`
	EventName    string  `json:"event_name" db:"event_name"`
	TimeMs       int     `json:"time_ms" db:"time_ms"`
	SwimmerName  string  `json:"swimmer_name" db:"swimmer_name"`
	RecordDate   *string `json:"record_date" db:"record_date"`
	Location     *string `json:"location" db:"location"`
	SortOrder    int     `json:"sort_order" db:"sort_order"`

	IsNational          bool `json:"is_national" db:"is_national"`
	IsCurrentNational   bool `json:"is_current_national" db:"is_current_national"`
	IsProvincial        bool `json:"is_provincial" db:"is_provincial"`
	IsCurrentProvincial bool `json:"is_current_provincial" db:"is_current_provincial"`
	IsSplit             bool `json:"is_split" db:"is_split"`
	IsRelaySplit        bool `json:"is_relay_split" db:"is_relay_split"`
	IsNew               bool `json:"is_new" db:"is_new"`
	IsWorldRecord       bool `json:"is_world_record" db:"is_world_record"`

	// IsCurrent is normalized at the repository boundary: the column is
	// nullable for legacy rows and NULL scans as true.
	IsCurrent    bool    `json:"is_current" db:"is_current"`
	SupersededBy *string `json:"superseded_by" db:"superseded_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
