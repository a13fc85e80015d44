package service

import (
	"context"
	"testing"

	"github.com/ouola/Phantom-backend/internal/model"
	"github.com/ouola/Phantom-backend/internal/schedule"
	"github.com/ouola/Phantom-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_IsOpenAt_BoundariesInclusive(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedPharmacy(t, env.db, "DFW Wellness", "100", "Mon, Wed, Fri 08:00 - 12:00 / Tue, Thur 14:00 - 18:00", nil)
	ctx := context.Background()

	open, err := env.schedule.IsOpenAt(ctx, "DFW Wellness", schedule.Mon, schedule.MustClock("08:00"))
	require.NoError(t, err)
	assert.True(t, open)

	open, err = env.schedule.IsOpenAt(ctx, "DFW Wellness", schedule.Mon, schedule.MustClock("07:59"))
	require.NoError(t, err)
	assert.False(t, open)

	open, err = env.schedule.IsOpenAt(ctx, "DFW Wellness", schedule.Thu, schedule.MustClock("18:00"))
	require.NoError(t, err)
	assert.True(t, open)
}

func TestScheduleService_IsOpenAt_Overnight(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedPharmacy(t, env.db, "Night Owl", "0", "Fri 22:00 - 02:00", nil)
	ctx := context.Background()

	for clock, want := range map[string]bool{"23:30": true, "01:00": true, "12:00": false} {
		open, err := env.schedule.IsOpenAt(ctx, "Night Owl", schedule.Fri, schedule.MustClock(clock))
		require.NoError(t, err)
		assert.Equal(t, want, open, clock)
	}
}

func TestScheduleService_IsOpenAt_UnknownPharmacy(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.schedule.IsOpenAt(context.Background(), "Nope", schedule.Mon, schedule.Midnight)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleService_OpenPharmaciesAt_SortedAndDeduplicated(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedPharmacy(t, env.db, "Zeta", "0", "Mon - Fri 08:00 - 17:00", nil)
	testutil.SeedPharmacy(t, env.db, "Alpha", "0", "Mon 08:00 - 10:00 / Mon 09:00 - 12:00", nil)
	testutil.SeedPharmacy(t, env.db, "Closed Monday", "0", "Tue 08:00 - 17:00", nil)
	testutil.SeedPharmacy(t, env.db, "Gap", "0", "Mon 06:00 - 08:00 / Mon 18:00 - 20:00", nil)

	got, err := env.schedule.OpenPharmaciesAt(context.Background(), schedule.Mon, schedule.MustClock("09:30"))
	require.NoError(t, err)

	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	// "Gap" has disjoint rows around 09:30 and must not be reported open.
	assert.Equal(t, []string{"Alpha", "Zeta"}, names)
}

func TestScheduleService_ReplaceForPharmacy_ReplacesAllRows(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.SeedPharmacy(t, env.db, "Carepoint", "0", "Mon - Sun 08:00 - 20:00", nil)
	ctx := context.Background()

	parsed, err := env.schedule.ReplaceForPharmacy(ctx, "Carepoint", "Sat 10:00 - 12:00 / bogus")
	require.NoError(t, err)
	assert.Len(t, parsed.Rows, 1)
	assert.Len(t, parsed.Skipped, 1)

	var stored []model.OpeningHour
	require.NoError(t, env.db.Where("pharmacy_id = ?", p.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "Sat", stored[0].Weekday)

	reloaded := testutil.Reload[model.Pharmacy](t, env.db, p.ID)
	assert.Equal(t, "Sat 10:00 - 12:00 / bogus", reloaded.OpeningHours)

	open, err := env.schedule.IsOpenAt(ctx, "Carepoint", schedule.Mon, schedule.MustClock("09:00"))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestScheduleService_PharmacySchedule(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedPharmacy(t, env.db, "Split", "0", "Mon 08:00 - 10:00 / Mon 14:00 - 18:00", nil)

	resp, err := env.schedule.PharmacySchedule(context.Background(), "Split")
	require.NoError(t, err)
	assert.Len(t, resp.Rows, 2)
	assert.Equal(t, schedule.Interval{Start: schedule.MustClock("08:00"), End: schedule.MustClock("18:00")}, resp.Merged[schedule.Mon])

	_, err = env.schedule.PharmacySchedule(context.Background(), "Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
