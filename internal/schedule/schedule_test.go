package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("08:05")
	require.NoError(t, err)
	assert.Equal(t, Clock(8*60+5), c)
	assert.Equal(t, "08:05", c.String())

	for _, bad := range []string{"", "8:05", "24:00", "12:60", "12-00", "ab:cd", "12:000"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}

func TestParseWeekday_Aliases(t *testing.T) {
	for in, want := range map[string]Weekday{"Mon": Mon, "mon": Mon, "Thur": Thu, "Sunday": Sun, " Fri ": Fri} {
		d, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d, in)
	}
	_, err := ParseWeekday("Xyz")
	assert.ErrorIs(t, err, ErrUnknownWeekday)
}

func TestWeekdayOf(t *testing.T) {
	// 2021-01-04 was a Monday.
	monday := time.Date(2021, 1, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, Mon, WeekdayOf(monday))
	assert.Equal(t, Sun, WeekdayOf(monday.AddDate(0, 0, 6)))
}

func TestParse_DayRange(t *testing.T) {
	s := Parse("Mon - Fri 08:00 - 17:00")
	require.Empty(t, s.Skipped)
	require.Len(t, s.Rows, 5)
	for i, r := range s.Rows {
		assert.Equal(t, Weekday(i), r.Weekday)
		assert.Equal(t, MustClock("08:00"), r.Start)
		assert.Equal(t, MustClock("17:00"), r.End)
	}
}

func TestParse_DayListAndSegments(t *testing.T) {
	s := Parse("Mon, Wed, Fri 08:00 - 12:00 / Tue, Thur 14:00 - 18:00")
	require.Empty(t, s.Skipped)
	require.Len(t, s.Rows, 5)

	assert.True(t, s.Rows.IsOpenAt(Mon, MustClock("09:00")))
	assert.False(t, s.Rows.IsOpenAt(Mon, MustClock("15:00")))
	assert.True(t, s.Rows.IsOpenAt(Thu, MustClock("15:00")))
	assert.False(t, s.Rows.IsOpenAt(Sat, MustClock("09:00")))
}

func TestParse_BoundariesInclusive(t *testing.T) {
	s := Parse("Sat 09:30 - 18:45")
	assert.True(t, s.Rows.IsOpenAt(Sat, MustClock("09:30")))
	assert.False(t, s.Rows.IsOpenAt(Sat, MustClock("09:29")))
	assert.True(t, s.Rows.IsOpenAt(Sat, MustClock("18:45")))
	assert.False(t, s.Rows.IsOpenAt(Sat, MustClock("18:46")))
}

func TestParse_OvernightSplitsIntoTwoRows(t *testing.T) {
	s := Parse("Fri 22:00 - 02:00")
	require.Empty(t, s.Skipped)
	require.Len(t, s.Rows, 2)

	assert.Equal(t, Row{Weekday: Fri, Start: Midnight, End: MustClock("02:00")}, s.Rows[0])
	assert.Equal(t, Row{Weekday: Fri, Start: MustClock("22:00"), End: EndOfDay}, s.Rows[1])
	for _, r := range s.Rows {
		assert.LessOrEqual(t, r.Start, r.End)
	}

	assert.True(t, s.Rows.IsOpenAt(Fri, MustClock("23:30")))
	assert.True(t, s.Rows.IsOpenAt(Fri, MustClock("01:00")))
	assert.False(t, s.Rows.IsOpenAt(Fri, MustClock("12:00")))
}

func TestParse_SkipsMalformedSegments(t *testing.T) {
	raw := "Mon 08:00 - 12:00 / Xyz 10:00 - 11:00 / Tue 25:00 - 26:00 / closed on holidays / Fri - Mon 09:00 - 10:00 / Wed 8:00 - 9:00"
	s := Parse(raw)

	require.Len(t, s.Rows, 1)
	assert.Equal(t, Mon, s.Rows[0].Weekday)
	require.Len(t, s.Skipped, 5)
	assert.ErrorIs(t, s.Skipped[0].Reason, ErrUnknownWeekday)
	assert.ErrorIs(t, s.Skipped[1].Reason, ErrInvalidClock)
	assert.ErrorIs(t, s.Skipped[2].Reason, ErrNoStructure)
	assert.ErrorIs(t, s.Skipped[3].Reason, ErrBadDayRange)
	assert.ErrorIs(t, s.Skipped[4].Reason, ErrInvalidClock)
	assert.Contains(t, s.Skipped[0].Error(), "Xyz")
}

func TestParse_EmptyInput(t *testing.T) {
	s := Parse("   ")
	assert.Empty(t, s.Rows)
	assert.Empty(t, s.Skipped)
}

func TestParse_MixedRangeAndList(t *testing.T) {
	s := Parse("Mon - Wed, Sat 10:00 - 11:00")
	require.Len(t, s.Rows, 4)
	assert.True(t, s.Rows.IsOpenAt(Tue, MustClock("10:30")))
	assert.True(t, s.Rows.IsOpenAt(Sat, MustClock("10:30")))
	assert.False(t, s.Rows.IsOpenAt(Thu, MustClock("10:30")))
}

func TestParse_DuplicateRowsCollapsed(t *testing.T) {
	s := Parse("Mon 08:00 - 12:00 / Mon 08:00 - 12:00")
	assert.Len(t, s.Rows, 1)
}

func TestMerged_TakesEarliestStartAndLatestEnd(t *testing.T) {
	s := Parse("Mon 08:00 - 10:00 / Mon 14:00 - 18:00 / Tue 09:00 - 12:00")
	merged := s.Merged()

	require.Len(t, merged, 2)
	assert.Equal(t, Interval{Start: MustClock("08:00"), End: MustClock("18:00")}, merged[Mon])
	assert.Equal(t, Interval{Start: MustClock("09:00"), End: MustClock("12:00")}, merged[Tue])

	// The rows themselves keep the gap.
	assert.False(t, s.Rows.IsOpenAt(Mon, MustClock("12:00")))
}

func TestRowContains_WrappingRow(t *testing.T) {
	r := Row{Weekday: Sun, Start: MustClock("20:00"), End: MustClock("04:00")}
	assert.True(t, r.Contains(MustClock("20:00")))
	assert.True(t, r.Contains(MustClock("03:59")))
	assert.True(t, r.Contains(MustClock("04:00")))
	assert.False(t, r.Contains(MustClock("12:00")))
}

func TestClockAndWeekday_TextRoundTrip(t *testing.T) {
	b, err := Row{Weekday: Wed, Start: MustClock("07:15"), End: EndOfDay}.Start.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "07:15", string(b))

	var d Weekday
	require.NoError(t, d.UnmarshalText([]byte("thu")))
	assert.Equal(t, Thu, d)
	_, err = Weekday(9).MarshalText()
	assert.Error(t, err)
}
