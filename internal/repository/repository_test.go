package repository

import (
	"context"
	"testing"

	"github.com/ouola/Phantom-backend/internal/model"
	"github.com/ouola/Phantom-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\% cotton%`, containsPattern("100% Cotton"))
	assert.Equal(t, `%a\_b\\c%`, containsPattern(`a_b\c`))
}

func TestSearch_TreatsWildcardsLiterally(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedPharmacy(t, db, "Better_You", "0", "", map[string]string{"50% Off (blue)": "1"})
	testutil.SeedPharmacy(t, db, "BetterXYou", "0", "", map[string]string{"500 Off (blue)": "1"})
	ctx := context.Background()

	ps, err := NewPharmacyRepository(db).Search(ctx, "r_y")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "Better_You", ps[0].Name)

	ms, err := NewMaskRepository(db).Search(ctx, "50%")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "50% Off (blue)", ms[0].Name)
	require.NotNil(t, ms[0].Pharmacy)
	assert.Equal(t, "Better_You", ms[0].Pharmacy.Name)
}

func TestCountMasksInPriceRange_IncludesPharmaciesWithoutMatches(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedPharmacy(t, db, "A", "0", "", map[string]string{"m1": "5", "m2": "10", "m3": "15"})
	testutil.SeedPharmacy(t, db, "B", "0", "", map[string]string{"m1": "20"})
	testutil.SeedPharmacy(t, db, "C", "0", "", nil)
	repo := NewPharmacyRepository(db)
	ctx := context.Background()

	got, err := repo.CountMasksInPriceRange(ctx, testutil.Money("5"), testutil.Money("10"), AtLeast, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, PharmacyMaskCount{PharmacyID: got[0].PharmacyID, Name: "A", MaskCount: 2}, got[0])

	got, err = repo.CountMasksInPriceRange(ctx, testutil.Money("5"), testutil.Money("10"), AtMost, 0)
	require.NoError(t, err)
	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"B", "C"}, names)
}

func TestUpdateBalanceTx_RejectsStaleVersion(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "Ada", "10")
	repo := NewUserRepository(db)

	require.NoError(t, repo.UpdateBalanceTx(db, u.ID, testutil.Money("5"), u.Version))
	assert.ErrorIs(t, repo.UpdateBalanceTx(db, u.ID, testutil.Money("1"), u.Version), ErrStaleVersion)

	got := testutil.Reload[model.User](t, db, u.ID)
	assert.True(t, testutil.Money("5").Equal(got.CashBalance))
	assert.Equal(t, u.Version+1, got.Version)
}

func TestFirstOrCreateTx_DetectsDuplicates(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "Ada", "0")
	repo := NewPurchaseRepository(db)

	rec := model.PurchaseRecord{
		UserID: u.ID, PharmacyName: "P", MaskName: "M", Quantity: 1,
		UnitPrice: testutil.Money("12.35"), TransactionAmount: testutil.Money("12.35"),
		TransactionDate: "2021-01-04", TransactionTime: "15:18:51", DayOfWeek: "Monday",
	}
	first := rec
	created, err := repo.FirstOrCreateTx(db, &first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second := rec
	created, err = repo.FirstOrCreateTx(db, &second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	third := rec
	third.TransactionTime = "15:18:52"
	created, err = repo.FirstOrCreateTx(db, &third)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestReplaceForPharmacyTx_ReplacesRows(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedPharmacy(t, db, "A", "0", "Mon - Fri 08:00 - 17:00", nil)
	repo := NewOpeningHourRepository(db)
	ctx := context.Background()

	rows, err := repo.ListByPharmacy(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	require.NoError(t, repo.ReplaceForPharmacyTx(db, p.ID, []model.OpeningHour{
		{PharmacyID: p.ID, Weekday: "Sun", StartTime: "10:00", EndTime: "12:00"},
	}))
	rows, err = repo.ListByPharmacy(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	joined, err := repo.ListByWeekday(ctx, "Sun")
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "A", joined[0].PharmacyName)
	assert.Equal(t, "10:00", joined[0].StartTime)
}
