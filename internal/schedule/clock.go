package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Weekday is a day of the week with Monday as the first day.
type Weekday int

const (
	Mon Weekday = iota
	Tue
	Wed
	Thu
	Fri
	Sat
	Sun
)

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// weekdayAliases maps lower-cased tokens to weekdays. Besides the canonical
// three-letter form it accepts the full English names and the "Tues"/"Thur"
// spellings that show up in hand-written schedules.
var weekdayAliases = map[string]Weekday{
	"mon": Mon, "monday": Mon,
	"tue": Tue, "tues": Tue, "tuesday": Tue,
	"wed": Wed, "wednesday": Wed,
	"thu": Thu, "thur": Thu, "thurs": Thu, "thursday": Thu,
	"fri": Fri, "friday": Fri,
	"sat": Sat, "saturday": Sat,
	"sun": Sun, "sunday": Sun,
}

var (
	ErrUnknownWeekday = errors.New("unknown weekday")
	ErrInvalidClock   = errors.New("invalid time, expected HH:MM")
)

// Weekdays lists every weekday in order.
func Weekdays() []Weekday {
	return []Weekday{Mon, Tue, Wed, Thu, Fri, Sat, Sun}
}

func (d Weekday) String() string {
	if d < Mon || d > Sun {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid reports whether d is one of the seven weekdays.
func (d Weekday) Valid() bool { return d >= Mon && d <= Sun }

// ParseWeekday resolves a weekday token case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	d, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
	}
	return d, nil
}

// WeekdayOf converts a time.Time weekday to the Monday-first Weekday.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// Clock is a time of day with minute resolution, stored as minutes since midnight.
type Clock int

const (
	Midnight  Clock = 0
	EndOfDay  Clock = 23*60 + 59
	minutesHr       = 60
)

var clockPattern = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// ParseClock parses a strict two-digit "HH:MM" value.
func ParseClock(s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(h*minutesHr + min), nil
}

// MustClock is ParseClock for constants; it panics on malformed input.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf truncates t to its minute of day.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*minutesHr + t.Minute())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/minutesHr, int(c)%minutesHr)
}

// MarshalText renders the clock as "HH:MM" so JSON payloads stay readable.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
