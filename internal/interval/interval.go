package interval

import (
	"fmt"
	"regexp"
	"strconv"
)

// EndOfDay is the last minute of a calendar day. Open-ended slots
// ("после 16:00") always close here; they never spill into the next day.
const EndOfDay = 23*60 + 59

// Interval is a half-open minute-of-day range [Start, End) on a single
// calendar date. A valid interval satisfies 0 <= Start < End <= EndOfDay.
type Interval struct {
	Start int
	End   int
}

// String renders the interval in its canonical zero-padded form,
// e.g. "18:30-22:00". This is the form persisted and shown to users.
func (iv Interval) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", iv.Start/60, iv.Start%60, iv.End/60, iv.End%60)
}

var (
	rangeRe = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})\s*$`)
	afterRe = regexp.MustCompile(`(?i)^\s*после\s+(\d{1,2}):(\d{2})\s*$`)
)

// matcher inspects raw text and either claims it (matched=true) or passes.
// A claimed match may still fail validation, which stops the chain.
type matcher func(text string) (iv Interval, matched bool, err error)

var matchers = []matcher{matchRange, matchAfter}

// Parse converts a free-text slot description into an Interval. Two
// grammars are recognized, checked in order with first match winning:
// an explicit range "18:30-22:00" (whitespace around the dash is
// ignored) and an open-ended "после 16:00". Anything else is an error;
// callers are expected to re-prompt.
func Parse(text string) (Interval, error) {
	for _, m := range matchers {
		iv, matched, err := m(text)
		if err != nil {
			return Interval{}, err
		}
		if matched {
			return iv, nil
		}
	}
	return Interval{}, fmt.Errorf("unrecognized time slot: %q", text)
}

// ParseAll parses a sequence of slot descriptions, failing on the first
// invalid entry.
func ParseAll(texts []string) ([]Interval, error) {
	out := make([]Interval, 0, len(texts))
	for _, t := range texts {
		iv, err := Parse(t)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

// Render returns the canonical form of each interval, in order.
func Render(ivs []Interval) []string {
	out := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, iv.String())
	}
	return out
}

func matchRange(text string) (Interval, bool, error) {
	m := rangeRe.FindStringSubmatch(text)
	if m == nil {
		return Interval{}, false, nil
	}
	start, err := minuteOfDay(m[1], m[2])
	if err != nil {
		return Interval{}, false, err
	}
	end, err := minuteOfDay(m[3], m[4])
	if err != nil {
		return Interval{}, false, err
	}
	if end <= start {
		return Interval{}, false, fmt.Errorf("empty or inverted range: %q", text)
	}
	return Interval{Start: start, End: end}, true, nil
}

func matchAfter(text string) (Interval, bool, error) {
	m := afterRe.FindStringSubmatch(text)
	if m == nil {
		return Interval{}, false, nil
	}
	start, err := minuteOfDay(m[1], m[2])
	if err != nil {
		return Interval{}, false, err
	}
	if start >= EndOfDay {
		return Interval{}, false, fmt.Errorf("empty or inverted range: %q", text)
	}
	return Interval{Start: start, End: EndOfDay}, true, nil
}

func minuteOfDay(hh, mm string) (int, error) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day out of range: %s:%s", hh, mm)
	}
	return h*60 + m, nil
}
