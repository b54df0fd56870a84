package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/swimboards/recordboard/models"
	"github.com/swimboards/recordboard/repositories"
)

// In-memory repository fakes. They only implement what the service tests
// exercise; exec parameters are ignored because no fake has transactions.

// fakeTxBeginner hands out no-op transactions so services that wrap
// their writes in a transaction can run against the fakes.
type fakeTxBeginner struct{}

func (fakeTxBeginner) BeginTx(context.Context, *sql.TxOptions) (repositories.Tx, error) {
	return fakeTx{}, nil
}

type fakeTx struct{}

func (fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeMembershipRepo struct {
	memberships []*models.Membership
}

func (f *fakeMembershipRepo) add(clubID, userID string, role models.ClubRole) {
	f.memberships = append(f.memberships, &models.Membership{
		ID:     fmt.Sprintf("m-%d", len(f.memberships)+1),
		ClubID: clubID,
		UserID: userID,
		Role:   role,
	})
}

func (f *fakeMembershipRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Membership) error {
	for _, existing := range f.memberships {
		if existing.ClubID == m.ClubID && existing.UserID == m.UserID {
			return repositories.ErrMembershipConflict
		}
	}
	m.ID = fmt.Sprintf("m-%d", len(f.memberships)+1)
	f.memberships = append(f.memberships, m)
	return nil
}

func (f *fakeMembershipRepo) GetByClubAndUser(_ context.Context, clubID, userID string) (*models.Membership, error) {
	for _, m := range f.memberships {
		if m.ClubID == clubID && m.UserID == userID {
			copy := *m
			return &copy, nil
		}
	}
	return nil, repositories.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) ListByClub(_ context.Context, clubID string) ([]models.Membership, error) {
	var out []models.Membership
	for _, m := range f.memberships {
		if m.ClubID == clubID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) ListClubsForUser(_ context.Context, userID string) ([]models.Membership, error) {
	var out []models.Membership
	for _, m := range f.memberships {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) UpdateRole(_ context.Context, _ repositories.SQLExecutor, clubID, userID string, role models.ClubRole) error {
	for _, m := range f.memberships {
		if m.ClubID == clubID && m.UserID == userID {
			m.Role = role
			return nil
		}
	}
	return repositories.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) Delete(_ context.Context, clubID, userID string) error {
	for i, m := range f.memberships {
		if m.ClubID == clubID && m.UserID == userID {
			f.memberships = append(f.memberships[:i], f.memberships[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) CountOwners(_ context.Context, clubID string) (int, error) {
	count := 0
	for _, m := range f.memberships {
		if m.ClubID == clubID && m.Role == models.RoleOwner {
			count++
		}
	}
	return count, nil
}

type fakeClubRepo struct {
	clubs []*models.Club
}

func (f *fakeClubRepo) Create(_ context.Context, _ repositories.SQLExecutor, club *models.Club) error {
	club.ID = fmt.Sprintf("club-%d", len(f.clubs)+1)
	f.clubs = append(f.clubs, club)
	return nil
}

func (f *fakeClubRepo) GetByID(_ context.Context, id string) (*models.Club, error) {
	for _, c := range f.clubs {
		if c.ID == id {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repositories.ErrClubNotFound
}

func (f *fakeClubRepo) GetBySlug(_ context.Context, slug string) (*models.Club, error) {
	for _, c := range f.clubs {
		if c.Slug == slug {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repositories.ErrClubNotFound
}

func (f *fakeClubRepo) Update(_ context.Context, club *models.Club) error {
	for _, c := range f.clubs {
		if c.ID == club.ID {
			c.ShortName = club.ShortName
			c.FullName = club.FullName
			return nil
		}
	}
	return repositories.ErrClubNotFound
}

func (f *fakeClubRepo) UpdateLogoKey(_ context.Context, clubID string, logoKey *string) error {
	for _, c := range f.clubs {
		if c.ID == clubID {
			c.LogoKey = logoKey
			return nil
		}
	}
	return repositories.ErrClubNotFound
}

func (f *fakeClubRepo) Delete(_ context.Context, id string) error {
	for i, c := range f.clubs {
		if c.ID == id {
			f.clubs = append(f.clubs[:i], f.clubs[i+1:]...)
			return nil
		}
	}
	return repositories.ErrClubNotFound
}

type fakeRecordListRepo struct {
	lists []*models.RecordList
}

func (f *fakeRecordListRepo) Create(_ context.Context, _ repositories.SQLExecutor, list *models.RecordList) error {
	for _, l := range f.lists {
		if l.ClubID == list.ClubID && l.Slug == list.Slug {
			return repositories.ErrRecordListSlugConflict
		}
	}
	list.ID = fmt.Sprintf("list-%d", len(f.lists)+1)
	list.CreatedAt = time.Now()
	f.lists = append(f.lists, list)
	return nil
}

func (f *fakeRecordListRepo) GetByID(_ context.Context, id string) (*models.RecordList, error) {
	for _, l := range f.lists {
		if l.ID == id {
			copy := *l
			return &copy, nil
		}
	}
	return nil, repositories.ErrRecordListNotFound
}

func (f *fakeRecordListRepo) GetBySlug(_ context.Context, clubID, slug string) (*models.RecordList, error) {
	for _, l := range f.lists {
		if l.ClubID == clubID && l.Slug == slug {
			copy := *l
			return &copy, nil
		}
	}
	return nil, repositories.ErrRecordListNotFound
}

func (f *fakeRecordListRepo) FirstByClub(_ context.Context, clubID string) (*models.RecordList, error) {
	for _, l := range f.lists {
		if l.ClubID == clubID {
			copy := *l
			return &copy, nil
		}
	}
	return nil, repositories.ErrRecordListNotFound
}

func (f *fakeRecordListRepo) ListByClub(_ context.Context, clubID string) ([]models.RecordList, error) {
	var out []models.RecordList
	for _, l := range f.lists {
		if l.ClubID == clubID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeRecordListRepo) Update(_ context.Context, list *models.RecordList) error {
	for _, l := range f.lists {
		if l.ID == list.ID {
			l.Title = list.Title
			l.CourseType = list.CourseType
			l.Gender = list.Gender
			return nil
		}
	}
	return repositories.ErrRecordListNotFound
}

func (f *fakeRecordListRepo) Delete(_ context.Context, id string) error {
	for i, l := range f.lists {
		if l.ID == id {
			f.lists = append(f.lists[:i], f.lists[i+1:]...)
			return nil
		}
	}
	return repositories.ErrRecordListNotFound
}

type fakeRecordRepo struct {
	records []*models.Record
	// clubByList resolves ListByClub without a join.
	clubByList map[string]string
}

func (f *fakeRecordRepo) add(rec models.Record) *models.Record {
	rec.ID = fmt.Sprintf("rec-%d", len(f.records)+1)
	f.records = append(f.records, &rec)
	return f.records[len(f.records)-1]
}

func (f *fakeRecordRepo) Create(_ context.Context, _ repositories.SQLExecutor, rec *models.Record) error {
	rec.ID = fmt.Sprintf("rec-%d", len(f.records)+1)
	copy := *rec
	f.records = append(f.records, &copy)
	return nil
}

func (f *fakeRecordRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, records []models.Record) ([]models.Record, error) {
	for i := range records {
		if err := f.Create(ctx, exec, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (*models.Record, error) {
	for _, r := range f.records {
		if r.ID == id {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (f *fakeRecordRepo) ListByList(_ context.Context, listID string) ([]models.Record, error) {
	var out []models.Record
	for _, r := range f.records {
		if r.RecordListID == listID {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeRecordRepo) ListByClub(_ context.Context, clubID string) ([]models.Record, error) {
	var out []models.Record
	for _, r := range f.records {
		if f.clubByList[r.RecordListID] == clubID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) Update(_ context.Context, _ repositories.SQLExecutor, rec *models.Record) error {
	for _, r := range f.records {
		if r.ID == rec.ID && r.RecordListID == rec.RecordListID {
			id, isCurrent, supersededBy := r.ID, r.IsCurrent, r.SupersededBy
			*r = *rec
			r.ID, r.IsCurrent, r.SupersededBy = id, isCurrent, supersededBy
			return nil
		}
	}
	return repositories.ErrRecordNotFound
}

func (f *fakeRecordRepo) MarkSuperseded(_ context.Context, _ repositories.SQLExecutor, listID, id, supersededBy string) error {
	for _, r := range f.records {
		if r.ID == id && r.RecordListID == listID {
			r.IsCurrent = false
			r.SupersededBy = &supersededBy
			return nil
		}
	}
	return repositories.ErrRecordNotFound
}

func (f *fakeRecordRepo) Delete(_ context.Context, id string) error {
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return repositories.ErrRecordNotFound
}

type fakeUserRepo struct {
	users []*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	copy := *user
	f.users = append(f.users, &copy)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByPasswordResetToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == token {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) SetPasswordResetToken(_ context.Context, id, token string, expiresAt time.Time) error {
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordResetToken = &token
			u.PasswordResetExpiresAt = &expiresAt
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.ID == user.ID {
			*u = *user
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

type fakePrefRepo struct {
	selected map[string]string
}

func (f *fakePrefRepo) GetSelectedClub(_ context.Context, userID string) (string, error) {
	return f.selected[userID], nil
}

func (f *fakePrefRepo) SetSelectedClub(_ context.Context, userID, clubID string) error {
	if f.selected == nil {
		f.selected = make(map[string]string)
	}
	f.selected[userID] = clubID
	return nil
}
