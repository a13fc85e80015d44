package service

import (
	"testing"
	"time"

	"github.com/ouola/Phantom-backend/internal/repository"
	"github.com/ouola/Phantom-backend/internal/testutil"
	"github.com/ouola/Phantom-backend/internal/worker"

	"gorm.io/gorm"
)

var fixedNow = time.Date(2021, 1, 4, 10, 15, 30, 0, time.UTC) // Monday

type testEnv struct {
	db        *gorm.DB
	schedule  ScheduleService
	purchases PurchaseService
	reports   ReportService
	catalog   CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	pharmacyRepo := repository.NewPharmacyRepository(db)
	maskRepo := repository.NewMaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	hourRepo := repository.NewOpeningHourRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	return &testEnv{
		db:        db,
		schedule:  NewScheduleService(pharmacyRepo, hourRepo),
		purchases: NewPurchaseService(userRepo, pharmacyRepo, maskRepo, purchaseRepo, worker.NewDispatcher(nil), func() time.Time { return fixedNow }),
		reports:   NewReportService(purchaseRepo, pharmacyRepo),
		catalog:   NewCatalogService(pharmacyRepo, maskRepo, hourRepo, nil),
	}
}

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := NewDateRange(day(start), day(end))
	if err != nil {
		t.Fatal(err)
	}
	return r
}
