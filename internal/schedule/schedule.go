// Package schedule parses free-text weekly opening hours such as
//
//	Mon - Fri 08:00 - 17:00 / Sat, Sun 22:00 - 02:00
//
// into normalized rows that never cross midnight, and answers point-in-time
// open/closed questions over those rows.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Segment failure reasons. Parse never fails as a whole; it reports these per segment.
var (
	ErrNoStructure = errors.New("segment has no day/time structure")
	ErrBadDayRange = errors.New("invalid weekday range")
)

// Row is one normalized opening interval. Start <= End for every row produced
// by Parse; rows with Start > End are still evaluated as wrapping intervals.
type Row struct {
	Weekday Weekday `json:"weekday"`
	Start   Clock   `json:"start"`
	End     Clock   `json:"end"`
}

// Contains reports whether t falls inside the row, bounds inclusive.
func (r Row) Contains(t Clock) bool {
	if r.Start <= r.End {
		return r.Start <= t && t <= r.End
	}
	return t >= r.Start || t <= r.End
}

func (r Row) String() string {
	return fmt.Sprintf("%s %s-%s", r.Weekday, r.Start, r.End)
}

// Rows is the stored schedule of a single pharmacy.
type Rows []Row

// IsOpenAt reports whether any row for weekday d contains t.
func (rs Rows) IsOpenAt(d Weekday, t Clock) bool {
	for _, r := range rs {
		if r.Weekday == d && r.Contains(t) {
			return true
		}
	}
	return false
}

// Interval is a single [Start, End] span of a day.
type Interval struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

// SkippedSegment is a segment that Parse ignored, with the reason.
type SkippedSegment struct {
	Segment string
	Reason  error
}

func (s SkippedSegment) Error() string {
	return fmt.Sprintf("segment %q: %v", s.Segment, s.Reason)
}

// Schedule is the outcome of parsing one raw schedule string.
type Schedule struct {
	Rows    Rows
	Skipped []SkippedSegment
}

// Merged collapses the rows of each weekday into one [earliest start, latest end]
// span. The result is a display summary only: it reports gaps between disjoint
// segments (and both halves of an overnight segment) as open.
func (s Schedule) Merged() map[Weekday]Interval {
	out := make(map[Weekday]Interval)
	for _, r := range s.Rows {
		cur, ok := out[r.Weekday]
		if !ok {
			out[r.Weekday] = Interval{Start: r.Start, End: r.End}
			continue
		}
		if r.Start < cur.Start {
			cur.Start = r.Start
		}
		if r.End > cur.End {
			cur.End = r.End
		}
		out[r.Weekday] = cur
	}
	return out
}

var segmentPattern = regexp.MustCompile(`^(.+?)\s+(\S+)\s*-\s*(\S+)$`)

// Parse converts a raw schedule into normalized rows. Segments are separated by
// "/"; malformed segments are collected in Skipped and do not affect the others.
func Parse(raw string) Schedule {
	var out Schedule
	seen := make(map[Row]struct{})

	for _, seg := range strings.Split(raw, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		rows, err := parseSegment(seg)
		if err != nil {
			out.Skipped = append(out.Skipped, SkippedSegment{Segment: seg, Reason: err})
			continue
		}
		for _, r := range rows {
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			out.Rows = append(out.Rows, r)
		}
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
	return out
}

func parseSegment(seg string) ([]Row, error) {
	m := segmentPattern.FindStringSubmatch(seg)
	if m == nil {
		return nil, ErrNoStructure
	}
	start, err := ParseClock(m[2])
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(m[3])
	if err != nil {
		return nil, err
	}
	days, err := parseDays(m[1])
	if err != nil {
		return nil, err
	}

	intervals := []Interval{{Start: start, End: end}}
	if start > end {
		intervals = []Interval{
			{Start: start, End: EndOfDay},
			{Start: Midnight, End: end},
		}
	}

	rows := make([]Row, 0, len(days)*len(intervals))
	for _, d := range days {
		for _, iv := range intervals {
			rows = append(rows, Row{Weekday: d, Start: iv.Start, End: iv.End})
		}
	}
	return rows, nil
}

// parseDays accepts "Mon, Wed, Fri", "Mon - Fri", "Sun" and combinations such
// as "Mon - Wed, Sat".
func parseDays(dayList string) ([]Weekday, error) {
	var days []Weekday
	set := make(map[Weekday]bool)
	add := func(d Weekday) {
		if !set[d] {
			set[d] = true
			days = append(days, d)
		}
	}

	for _, item := range strings.Split(dayList, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, ErrNoStructure
		}
		if !strings.Contains(item, "-") {
			d, err := ParseWeekday(item)
			if err != nil {
				return nil, err
			}
			add(d)
			continue
		}

		ends := strings.Split(item, "-")
		if len(ends) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrBadDayRange, item)
		}
		from, err := ParseWeekday(ends[0])
		if err != nil {
			return nil, err
		}
		to, err := ParseWeekday(ends[1])
		if err != nil {
			return nil, err
		}
		if from > to {
			return nil, fmt.Errorf("%w: %q", ErrBadDayRange, item)
		}
		for d := from; d <= to; d++ {
			add(d)
		}
	}
	return days, nil
}

// MarshalText renders the weekday abbreviation.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWeekday, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(b []byte) error {
	v, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
