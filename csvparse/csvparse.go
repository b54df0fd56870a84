// Package csvparse converts loosely-structured record board CSV files into
// validated record rows plus per-row error messages. Bad rows are skipped
// and reported, never fatal.
package csvparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/swimboards/recordboard/swimtime"
)

// Record is one validated row of an import file.
type Record struct {
	EventName           string  `json:"event_name"`
	TimeMs              int     `json:"time_ms"`
	SwimmerName         string  `json:"swimmer_name"`
	RecordDate          *string `json:"record_date"`
	Location            *string `json:"location"`
	IsNational          bool    `json:"is_national"`
	IsCurrentNational   bool    `json:"is_current_national"`
	IsProvincial        bool    `json:"is_provincial"`
	IsCurrentProvincial bool    `json:"is_current_provincial"`
	IsSplit             bool    `json:"is_split"`
	IsRelaySplit        bool    `json:"is_relay_split"`
	IsNew               bool    `json:"is_new"`
	IsWorldRecord       bool    `json:"is_world_record"`
}

// ParseResult carries the rows that survived validation and the advisory
// error list for the rows that did not.
type ParseResult struct {
	Records []Record `json:"records"`
	Errors  []string `json:"errors"`
}

// Recognized header aliases per logical column. First match wins.
var columnAliases = map[string][]string{
	"event":                 {"event", "event_name", "eventname"},
	"time":                  {"time", "time_ms", "record_time"},
	"swimmer":               {"swimmer", "swimmer_name", "swimmername", "name", "athlete"},
	"date":                  {"date", "record_date", "recorddate"},
	"location":              {"location", "meet", "venue"},
	"is_national":           {"is_national", "national", "canadian_record"},
	"is_current_national":   {"is_current_national", "current_national", "current_canadian"},
	"is_provincial":         {"is_provincial", "provincial", "provincial_record"},
	"is_current_provincial": {"is_current_provincial", "current_provincial"},
	"is_split":              {"is_split", "split", "split_time"},
	"is_relay_split":        {"is_relay_split", "relay_split", "relay"},
	"is_new":                {"is_new", "new", "new_record"},
	"is_world_record":       {"is_world_record", "world_record", "world", "wr"},
}

var (
	yearOnly  = regexp.MustCompile(`^\d{4}$`)
	yearMonth = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})$`)
	fullDate  = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
)

// Layouts without a day component reduce to YYYY-MM.
var monthYearLayouts = []string{"January 2006", "Jan 2006", "2006 January", "2006 Jan"}

var dayLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// NormalizeDate normalizes a date string while preserving its granularity:
// "2024" stays a bare year, "2024-3" becomes "2024-03", "2024-3-5" becomes
// "2024-03-05". Loosely formatted strings like "March 2024" are reduced to
// the narrowest matching form. Unparseable input passes through unchanged.
func NormalizeDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if yearOnly.MatchString(trimmed) {
		return trimmed
	}

	if m := yearMonth.FindStringSubmatch(trimmed); m != nil {
		return fmt.Sprintf("%s-%s", m[1], pad2(m[2]))
	}

	if m := fullDate.FindStringSubmatch(trimmed); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], pad2(m[2]), pad2(m[3]))
	}

	for _, layout := range monthYearLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("2006-01")
		}
	}
	for _, layout := range dayLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("2006-01-02")
		}
	}

	// Best effort only, never an error.
	return trimmed
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func parseBoolean(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower == "true" || lower == "yes" || lower == "1" || lower == "x"
}

func findColumn(row map[string]string, logical string) (string, bool) {
	for _, alias := range columnAliases[logical] {
		if v, ok := row[alias]; ok {
			return v, true
		}
	}
	return "", false
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ParseRecords parses raw CSV text (header row required) into records and
// row-level error messages. Row numbers in errors are 1-based and include
// the header, so the first data row is row 2.
func ParseRecords(content string) ParseResult {
	result := ParseResult{Records: []Record{}, Errors: []string{}}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			result.Errors = append(result.Errors, fmt.Sprintf("Row 1: %v", err))
		}
		return result
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	dataIndex := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", parseErr.Line, parseErr.Err))
				dataIndex++
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", dataIndex+2, err))
			break
		}

		rowNum := dataIndex + 2
		dataIndex++

		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(fields) {
				row[h] = fields[i]
			}
		}

		event, eventOK := findColumn(row, "event")
		timeVal, timeOK := findColumn(row, "time")
		swimmer, swimmerOK := findColumn(row, "swimmer")
		if !eventOK || !timeOK || !swimmerOK || event == "" || timeVal == "" || swimmer == "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: Missing required field (event, time, or swimmer)", rowNum))
			continue
		}

		timeMs := swimtime.ParseToMs(timeVal)
		if timeMs == 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: Invalid time format %q", rowNum, timeVal))
			continue
		}

		date, _ := findColumn(row, "date")
		location, _ := findColumn(row, "location")

		record := Record{
			EventName:   strings.TrimSpace(event),
			TimeMs:      timeMs,
			SwimmerName: strings.TrimSpace(swimmer),
			RecordDate:  optional(NormalizeDate(date)),
			Location:    optional(location),
		}
		if v, ok := findColumn(row, "is_national"); ok {
			record.IsNational = parseBoolean(v)
		}
		if v, ok := findColumn(row, "is_current_national"); ok {
			record.IsCurrentNational = parseBoolean(v)
		}
		if v, ok := findColumn(row, "is_provincial"); ok {
			record.IsProvincial = parseBoolean(v)
		}
		if v, ok := findColumn(row, "is_current_provincial"); ok {
			record.IsCurrentProvincial = parseBoolean(v)
		}
		if v, ok := findColumn(row, "is_split"); ok {
			record.IsSplit = parseBoolean(v)
		}
		if v, ok := findColumn(row, "is_relay_split"); ok {
			record.IsRelaySplit = parseBoolean(v)
		}
		if v, ok := findColumn(row, "is_new"); ok {
			record.IsNew = parseBoolean(v)
		}
		if v, ok := findColumn(row, "is_world_record"); ok {
			record.IsWorldRecord = parseBoolean(v)
		}

		result.Records = append(result.Records, record)
	}

	return result
}

// Template returns the downloadable CSV template with one example row.
func Template() string {
	headers := []string{
		"Event", "Time", "Swimmer", "Date", "Location",
		"is_World_Record", "is_National", "is_Current_National",
		"is_Provincial", "is_Current_Provincial", "is_Split", "is_RelaySplit", "is_New",
	}
	exampleRow := []string{
		"50 Free", "24.56", "John Smith", "2024-03-15", "City Championships",
		"", "", "", "", "", "", "", "",
	}
	return strings.Join(headers, ",") + "\n" + strings.Join(exampleRow, ",")
}
