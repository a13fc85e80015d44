//go:build integration

package router

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ouola/Phantom-backend/internal/config"
	"github.com/ouola/Phantom-backend/internal/infra"
	"github.com/ouola/Phantom-backend/internal/model"
	"github.com/ouola/Phantom-backend/internal/testutil"
	"github.com/ouola/Phantom-backend/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type e2eEnv struct {
	server *httptest.Server
	db     *gorm.DB
	rdb    *redis.Client
}

func setupE2E(t *testing.T) *e2eEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("phantom_test"),
		tcPostgres.WithUsername("phantom"),
		tcPostgres.WithPassword("phantom"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:             "test",
		DatabaseDriver:  infra.DriverPostgres,
		DatabaseURL:     pgURL,
		RedisURL:        rdURL,
		CacheTTLSeconds: 300,
		Timezone:        "UTC",
	}

	db, err := infra.NewDatabase(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	testutil.SeedPharmacy(t, db, "Carepoint", "593.35",
		"Mon - Wed 08:00 - 17:00 / Thur, Sat 20:00 - 02:00",
		map[string]string{"Masquerade (green) (3 per pack)": "16.75", "Second Smile (black) (10 per pack)": "33.02"})

	srv := httptest.NewServer(New(cfg, db, rdb))
	t.Cleanup(srv.Close)

	return &e2eEnv{server: srv, db: db, rdb: rdb}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_PurchaseCycle(t *testing.T) {
	env := setupE2E(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, env.db, "Yvonne Guerrero", "191.83")

	resp := do(t, env.server, http.MethodPost, "/purchase-mask", jsonBody(t, map[string]any{
		"user_id":       u.ID,
		"pharmacy_name": "Carepoint",
		"mask_name":     "Second Smile (black) (10 per pack)",
		"quantity":      3,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var purchase struct {
		ID                uint    `json:"id"`
		TransactionAmount float64 `json:"transaction_amount"`
	}
	decodeJSON(t, resp, &purchase)
	assert.Equal(t, 99.06, purchase.TransactionAmount)

	got := testutil.Reload[model.User](t, env.db, u.ID)
	assert.True(t, testutil.Money("92.77").Equal(got.CashBalance))

	// The purchase event is queued for external consumers.
	raw, err := env.rdb.RPop(ctx, worker.QueuePurchases).Bytes()
	require.NoError(t, err)
	var job worker.Job
	require.NoError(t, json.Unmarshal(raw, &job))
	assert.Equal(t, "purchase.completed", job.Type)
	var ev worker.PurchaseEvent
	require.NoError(t, json.Unmarshal(job.Payload, &ev))
	assert.Equal(t, purchase.ID, ev.RecordID)
	assert.Equal(t, "99.06", ev.TransactionAmount)

	resp = do(t, env.server, http.MethodGet, "/transactions/total?start_date=2000-01-01&end_date=2100-01-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var totals struct {
		TotalMasks    int64   `json:"total_masks"`
		TotalAmount   float64 `json:"total_amount"`
		TotalQuantity int64   `json:"total_quantity"`
	}
	decodeJSON(t, resp, &totals)
	assert.Equal(t, int64(1), totals.TotalMasks)
	assert.Equal(t, 99.06, totals.TotalAmount)
	assert.Equal(t, int64(3), totals.TotalQuantity)
}

func TestE2E_ConcurrentPurchasesNeverOverspend(t *testing.T) {
	env := setupE2E(t)
	u := testutil.SeedUser(t, env.db, "Eric Underwood", "50.00")

	const buyers = 8
	var wg sync.WaitGroup
	codes := make([]int, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, http.MethodPost, "/purchase-mask", jsonBody(t, map[string]any{
				"user_id":       u.ID,
				"pharmacy_name": "Carepoint",
				"mask_name":     "Masquerade (green) (3 per pack)",
				"quantity":      1,
			}))
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created := 0
	for _, c := range codes {
		if c == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusBadRequest, c)
		}
	}
	// 50.00 covers exactly two 16.75 purchases.
	assert.Equal(t, 2, created)

	got := testutil.Reload[model.User](t, env.db, u.ID)
	assert.True(t, testutil.Money("16.50").Equal(got.CashBalance))

	var records int64
	require.NoError(t, env.db.Model(&model.PurchaseRecord{}).Count(&records).Error)
	assert.Equal(t, int64(created), records)
}

func TestE2E_MaskListCacheIsInvalidatedOnDelete(t *testing.T) {
	env := setupE2E(t)
	ctx := context.Background()

	resp := do(t, env.server, http.MethodGet, "/pharmacies/masks?pharmacy_name=Carepoint&sort_by=price", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	n, err := env.rdb.Exists(ctx, "masks:price:Carepoint").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	resp = do(t, env.server, http.MethodDelete, "/pharmacies?pharmacy_name=Carepoint", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	n, err = env.rdb.Exists(ctx, "masks:price:Carepoint").Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	resp = do(t, env.server, http.MethodGet, "/pharmacies/masks?pharmacy_name=Carepoint", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_HealthReportsRedis(t *testing.T) {
	env := setupE2E(t)
	resp := do(t, env.server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, "connected", body["redis"])
	assert.Equal(t, infra.CBClosed.String(), body["cache_breaker"])
}
