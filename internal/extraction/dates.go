package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/rezoom/internal/types"
)

var (
	yearToken    = regexp.MustCompile(`\b(\d{4})\b`)
	centuryToken = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
)

type precision int

const (
	precisionDay precision = iota
	precisionMonth
	precisionYear
)

// dateLayouts are the calendar formats accepted verbatim, most specific first
var dateLayouts = []struct {
	layout string
	prec   precision
}{
	{"2006-01-02", precisionDay},
	{"2006/01/02", precisionDay},
	{"01/02/2006", precisionDay},
	{"Jan 2, 2006", precisionDay},
	{"January 2, 2006", precisionDay},
	{"2 Jan 2006", precisionDay},
	{"2 January 2006", precisionDay},
	{"2006-01", precisionMonth},
	{"2006/01", precisionMonth},
	{"01/2006", precisionMonth},
	{"1/2006", precisionMonth},
	{"Jan 2006", precisionMonth},
	{"January 2006", precisionMonth},
	{"Jan. 2006", precisionMonth},
}

// ParseDate applies the extraction date policy for start and issue dates.
// Empty and "present" (any case) mean ongoing and return ok with a nil date.
// A parseable calendar date is used as is; otherwise a 4-digit year token
// anywhere in the string maps to January 1 of that year.
// ok is false when the value is unusable.
func ParseDate(value string) (date *types.Date, ok bool) {
	return parseDate(value, false)
}

// ParseEndDate is ParseDate for end and expiry dates. A partial date resolves
// to the last day of its period, so "2021" is 2021-12-31 and "Jun 2021" is 2021-06-30.
func ParseEndDate(value string) (date *types.Date, ok bool) {
	return parseDate(value, true)
}

func parseDate(value string, periodEnd bool) (*types.Date, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "present") {
		return nil, true
	}

	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, value)
		if err != nil {
			continue
		}
		if periodEnd && l.prec == precisionMonth {
			t = t.AddDate(0, 1, -1)
		}
		d := types.DateOf(t)
		return &d, true
	}

	if m := yearToken.FindStringSubmatch(value); m != nil {
		year, _ := strconv.Atoi(m[1])
		if year > 0 {
			d := types.NewDate(year, time.January, 1)
			if periodEnd {
				d = types.NewDate(year, time.December, 31)
			}
			return &d, true
		}
	}
	return nil, false
}

// ParseRequiredDate is ParseDate for fields that cannot be ongoing
func ParseRequiredDate(value string) (types.Date, bool) {
	d, ok := ParseDate(value)
	if !ok || d == nil {
		return types.Date{}, false
	}
	return *d, true
}

// ParseYear extracts the first 4-digit token starting with 19 or 20
func ParseYear(value string) (int, bool) {
	m := centuryToken.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}
