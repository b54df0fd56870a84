package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/swimboards/recordboard/models"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename   string
		wantTitle  string
		wantSlug   string
		wantCourse models.CourseType
	}{
		{"SCM_Female_18-24.csv", "SCM Female 18-24", "scm-female-18-24", models.CourseSCM},
		{"LCM_Male_Open.csv", "LCM Male Open", "lcm-male-open", models.CourseLCM},
		{"scy relays.CSV", "scy relays", "scy-relays", models.CourseSCY},
		{"Open.csv", "Open", "open", models.CourseLCM},
		{"Club_Records", "Club Records", "club-records", models.CourseLCM},
		// SCM wins when several markers appear
		{"SCM_and_SCY.csv", "SCM and SCY", "scm-and-scy", models.CourseSCM},
	}
	for _, tt := range tests {
		title, slug, course := ParseFilename(tt.filename)
		if title != tt.wantTitle || slug != tt.wantSlug || course != tt.wantCourse {
			t.Errorf("ParseFilename(%q) = (%q, %q, %s), want (%q, %q, %s)",
				tt.filename, title, slug, course, tt.wantTitle, tt.wantSlug, tt.wantCourse)
		}
	}
}

func newImportFixture() (*importService, *fakeRecordListRepo, *fakeRecordRepo, *fakeMembershipRepo) {
	membershipRepo := &fakeMembershipRepo{}
	clubRepo := &fakeClubRepo{clubs: []*models.Club{{ID: "club-1", Slug: "rapids"}}}
	listRepo := &fakeRecordListRepo{}
	recordRepo := &fakeRecordRepo{}
	svc := &importService{
		db:         fakeTxBeginner{},
		listRepo:   listRepo,
		recordRepo: recordRepo,
		clubRepo:   clubRepo,
		authz:      authorizer{membershipRepo: membershipRepo},
	}
	return svc, listRepo, recordRepo, membershipRepo
}

func TestImportRunRequiresEditor(t *testing.T) {
	svc, _, _, membershipRepo := newImportFixture()
	membershipRepo.add("club-1", "user-1", models.RoleViewer)

	_, err := svc.Run(context.Background(), "club-1", nil, "user-1", nil)
	if !errors.Is(err, ErrEditActionForbidden) {
		t.Fatalf("expected ErrEditActionForbidden, got %v", err)
	}
}

func TestImportRunCreatesListAndRecords(t *testing.T) {
	svc, listRepo, recordRepo, membershipRepo := newImportFixture()
	membershipRepo.add("club-1", "user-1", models.RoleEditor)

	data := "event,time,swimmer,date\n" +
		"50 Free,24.56,Jane Doe,2024-03-15\n" +
		"100 Free,1:02.34,Amy Smith,2024-03-15\n"
	files := []ImportFile{{Filename: "SCM_Female_18-24.csv", Data: []byte(data)}}

	result, err := svc.Run(context.Background(), "club-1", files, "user-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Failed) != 0 {
		t.Fatalf("expected no failures, got %v", result.Failed)
	}
	if len(result.Success) != 1 || result.Success[0] != "SCM Female 18-24: 2 records" {
		t.Fatalf("unexpected success messages %v", result.Success)
	}

	list, err := listRepo.GetBySlug(context.Background(), "club-1", "scm-female-18-24")
	if err != nil {
		t.Fatalf("imported list not found: %v", err)
	}
	if list.Title != "SCM Female 18-24" || list.CourseType != models.CourseSCM {
		t.Errorf("list not configured from the filename: %+v", list)
	}

	records, err := recordRepo.ListByList(context.Background(), list.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].EventName != "50 Free" || records[0].SortOrder != 0 {
		t.Errorf("first row should keep position 0, got %+v", records[0])
	}
	if records[1].EventName != "100 Free" || records[1].SortOrder != 1 || records[1].TimeMs != 62340 {
		t.Errorf("second row should keep position 1 with time 62340, got %+v", records[1])
	}
	if !records[0].IsCurrent || !records[1].IsCurrent {
		t.Error("imported records start out current")
	}
}

func TestImportRunReportsSlugConflict(t *testing.T) {
	svc, listRepo, _, membershipRepo := newImportFixture()
	membershipRepo.add("club-1", "user-1", models.RoleEditor)
	if err := listRepo.Create(context.Background(), nil, &models.RecordList{
		ClubID: "club-1", Title: "Existing", Slug: "scm-female-18-24", CourseType: models.CourseSCM,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	files := []ImportFile{{
		Filename: "SCM_Female_18-24.csv",
		Data:     []byte("event,time,swimmer\n50 Free,24.56,Jane Doe\n"),
	}}

	result, err := svc.Run(context.Background(), "club-1", files, "user-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Failed) != 1 || result.Failed[0] != "SCM Female 18-24: a list with this slug already exists" {
		t.Fatalf("unexpected failure messages %v", result.Failed)
	}
}

func TestImportRunReportsFilesWithoutRecords(t *testing.T) {
	svc, _, _, membershipRepo := newImportFixture()
	membershipRepo.add("club-1", "user-1", models.RoleEditor)

	files := []ImportFile{
		{Filename: "SCM_Empty.csv", Data: []byte("event,time,swimmer\n")},
		{Filename: "SCM_Bad.csv", Data: []byte("event,time,swimmer\n50 Free,notatime,Jane\n")},
	}

	var calls []int
	progress := func(current, total int) {
		if total != 2 {
			t.Errorf("expected total 2, got %d", total)
		}
		calls = append(calls, current)
	}

	result, err := svc.Run(context.Background(), "club-1", files, "user-1", progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Success) != 0 {
		t.Errorf("expected no successes, got %v", result.Success)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("expected 2 failures, got %v", result.Failed)
	}
	for _, msg := range result.Failed {
		if !strings.HasSuffix(msg, ": No valid records") {
			t.Errorf("unexpected failure message %q", msg)
		}
	}
	if result.Failed[0] != "SCM Empty: No valid records" {
		t.Errorf("failure message should use the derived title, got %q", result.Failed[0])
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("expected progress calls 1, 2, got %v", calls)
	}
}
