package finance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// YearMonth is the monthly bucket used by every time series. Its string form
// is "YYYY-MM", which sorts chronologically.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth validates and builds a bucket key.
func NewYearMonth(year int, month time.Month) (YearMonth, error) {
	if year < 1000 || year > 9999 {
		return YearMonth{}, fmt.Errorf("year %d is not a 4-digit year", year)
	}
	if month < time.January || month > time.December {
		return YearMonth{}, fmt.Errorf("month %d out of range", month)
	}
	return YearMonth{Year: year, Month: month}, nil
}

// ParseYearMonth parses the "YYYY-MM" form.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return NewYearMonth(t.Year(), t.Month())
}

// String renders the key as "YYYY-MM".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// IsZero reports whether the key is unset.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Before orders keys chronologically.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// MarshalText lets YearMonth be used as a JSON object key.
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText parses the "YYYY-MM" form.
func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// compactDate matches the export form D-Mon-YY, e.g. "31-Aug-25".
var compactDate = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{2})$`)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// dateLayouts are tried in order after the compact form. Slash dates are read
// month first.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"Mon, 02 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01",
}

// BucketDate maps a date cell to its YearMonth. Two-digit years in the compact
// D-Mon-YY form are always read as 20YY. Anything unparseable yields ok=false.
func BucketDate(raw string) (YearMonth, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return YearMonth{}, false
	}
	if year, month, _, ok := parseCompactDate(s); ok {
		return YearMonth{Year: year, Month: month}, true
	}
	t, ok := parseCalendarDate(s)
	if !ok {
		return YearMonth{}, false
	}
	ym, err := NewYearMonth(t.Year(), t.Month())
	if err != nil {
		return YearMonth{}, false
	}
	return ym, true
}

// ParseDate parses a date cell to a point in time, using the same rules as
// BucketDate. Compact dates resolve to their exact day.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if year, month, day, ok := parseCompactDate(s); ok {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
	}
	return parseCalendarDate(s)
}

// parseCompactDate reads D-Mon-YY. A match with an unknown month or an
// impossible day is not an error; the caller tries the general layouts next.
func parseCompactDate(s string) (year int, month time.Month, day int, ok bool) {
	m := compactDate.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, false
	}
	month, known := monthAbbrev[strings.ToLower(m[2])]
	day, _ = strconv.Atoi(m[1])
	if !known || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	yy, _ := strconv.Atoi(m[3])
	return 2000 + yy, month, day, true
}

func parseCalendarDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
