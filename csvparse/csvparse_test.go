package csvparse

import (
	"strings"
	"testing"
)

func TestParseRecords(t *testing.T) {
	csv := "Event,Time,Swimmer\n50 Free,24.56,John Smith\n100 Free,bad,Jane Doe"

	result := ParseRecords(csv)

	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	r := result.Records[0]
	if r.EventName != "50 Free" {
		t.Errorf("event = %q, want %q", r.EventName, "50 Free")
	}
	if r.TimeMs != 24560 {
		t.Errorf("time_ms = %d, want 24560", r.TimeMs)
	}
	if r.SwimmerName != "John Smith" {
		t.Errorf("swimmer = %q, want %q", r.SwimmerName, "John Smith")
	}

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Row 3") || !strings.Contains(result.Errors[0], "Invalid time format") {
		t.Errorf("unexpected error message: %q", result.Errors[0])
	}
}

func TestParseRecordsMissingRequiredField(t *testing.T) {
	csv := "Event,Time,Swimmer\n50 Free,24.56,"

	result := ParseRecords(csv)

	if len(result.Records) != 0 {
		t.Fatalf("expected 0 records, got %d", len(result.Records))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0], "Missing required field") {
		t.Errorf("unexpected error message: %q", result.Errors[0])
	}
	if !strings.Contains(result.Errors[0], "Row 2") {
		t.Errorf("error should reference row 2: %q", result.Errors[0])
	}
}

func TestParseRecordsHeaderAliases(t *testing.T) {
	csv := "event_name,record_time,athlete,meet\n100 Back,1:02.50,Ann Lee,Provincials"

	result := ParseRecords(csv)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	r := result.Records[0]
	if r.TimeMs != 62500 {
		t.Errorf("time_ms = %d, want 62500", r.TimeMs)
	}
	if r.Location == nil || *r.Location != "Provincials" {
		t.Errorf("location not mapped from meet alias: %v", r.Location)
	}
}

func TestParseRecordsBooleanFlags(t *testing.T) {
	csv := "Event,Time,Swimmer,is_national,world_record,is_split\n" +
		"50 Free,24.56,John,YES,x,nope"

	result := ParseRecords(csv)

	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d (%v)", len(result.Records), result.Errors)
	}
	r := result.Records[0]
	if !r.IsNational {
		t.Error("is_national should be true for YES")
	}
	if !r.IsWorldRecord {
		t.Error("is_world_record should be true for x")
	}
	if r.IsSplit {
		t.Error("is_split should be false for nope")
	}
}

func TestParseRecordsOptionalFieldsBecomeNil(t *testing.T) {
	csv := "Event,Time,Swimmer,Date,Location\n50 Free,24.56,John,,  "

	result := ParseRecords(csv)

	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d (%v)", len(result.Records), result.Errors)
	}
	r := result.Records[0]
	if r.RecordDate != nil {
		t.Errorf("empty date should be nil, got %q", *r.RecordDate)
	}
	if r.Location != nil {
		t.Errorf("blank location should be nil, got %q", *r.Location)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024", "2024"},
		{"2024-3", "2024-03"},
		{"2024/3", "2024-03"},
		{"2024-3-5", "2024-03-05"},
		{"2024/03/05", "2024-03-05"},
		{"2024-12-31", "2024-12-31"},
		{"March 2024", "2024-03"},
		{"Mar 15, 2024", "2024-03-15"},
		{"not a date", "not a date"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeDate(tt.input); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	result := ParseRecords(Template())

	if len(result.Errors) != 0 {
		t.Fatalf("template should parse without errors, got %v", result.Errors)
	}
	if len(result.Records) != 1 {
		t.Fatalf("template should yield exactly 1 record, got %d", len(result.Records))
	}
	r := result.Records[0]
	if r.EventName != "50 Free" || r.TimeMs != 24560 || r.SwimmerName != "John Smith" {
		t.Errorf("unexpected template record: %+v", r)
	}
	if r.RecordDate == nil || *r.RecordDate != "2024-03-15" {
		t.Errorf("template date not preserved: %v", r.RecordDate)
	}
}
