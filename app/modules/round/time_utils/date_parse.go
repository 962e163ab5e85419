package roundtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	roundutil "github.com/Black-And-White-Club/golf-handicap/app/modules/round/utils"
)

// calendarLayouts are the explicit date spellings accepted before falling back
// to natural language.
var calendarLayouts = []string{
	rounddomain.DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC3339,
}

// DateParser turns user supplied dates into calendar dates.
type DateParser struct {
	w *when.Parser
}

// NewDateParser creates a parser that understands explicit dates and English
// expressions such as "yesterday" or "last saturday".
func NewDateParser() *DateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateParser{w: w}
}

// NormalizeDate returns input as YYYY-MM-DD. Relative expressions resolve
// against clock; dates after today are rejected since a round cannot be
// recorded before it is played.
func (p *DateParser) NormalizeDate(input string, clock roundutil.Clock) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("date is required")
	}

	now := clock.Now()
	parsed, ok := parseCalendar(input)
	if !ok {
		r, err := p.w.Parse(strings.ToLower(input), now)
		if err != nil {
			return "", fmt.Errorf("could not parse date %q: %w", input, err)
		}
		if r == nil {
			return "", fmt.Errorf("could not recognize date %q", input)
		}
		parsed = r.Time.In(now.Location())
	}

	date := parsed.Format(rounddomain.DateLayout)
	if date > now.Format(rounddomain.DateLayout) {
		return "", fmt.Errorf("date %s is in the future", date)
	}
	return date, nil
}

func parseCalendar(input string) (time.Time, bool) {
	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
