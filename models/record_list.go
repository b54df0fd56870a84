package models

import "time"

// CourseType is the pool/format category of a record list.
type CourseType string

const (
	CourseLCM CourseType = "LCM" // long course meters
	CourseSCM CourseType = "SCM" // short course meters
	CourseSCY CourseType = "SCY" // short course yards
)

func (c CourseType) Valid() bool {
	switch c {
	case CourseLCM, CourseSCM, CourseSCY:
		return true
	}
	return false
}

// Gender groups record lists. Lists created before the column existed
// have no gender and form their own trailing group.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// RecordList is one record board page of a club. The slug is unique
// within the club and immutable.
type RecordList struct {
	ID         string     `json:"id" db:"id"`
	ClubID     string     `json:"club_id" db:"club_id"`
	Title      string     `json:"title" db:"title"`
	Slug       string     `json:"slug" db:"slug"`
	CourseType CourseType `json:"course_type" db:"course_type"`
	Gender     *Gender    `json:"gender" db:"gender"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`

	Records     []Record `json:"records,omitempty" db:"-"`
	RecordCount int      `json:"record_count,omitempty" db:"-"`
}
