package app

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/guttosm/packflow/config"
	"github.com/guttosm/packflow/internal/cache"
)

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	cfg := config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329, // unlikely mapped
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}
	db, err := InitPostgres(cfg)
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329,
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}

	r, cleanup, err := InitializeApp()
	if err == nil || r != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with invalid DB config")
	}
}

func TestInitializeApp_InvalidMetricsConfig(t *testing.T) {
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{Metrics: config.MetricsConfig{RealizedStatuses: []string{"settled"}}}

	if _, _, err := InitializeApp(); err == nil {
		t.Fatalf("expected error for unknown realized status")
	}
}

func TestInitializeApp_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectPing()

	oldPG, oldRedis, oldCfg := postgresOpener, redisOpener, config.AppConfig
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	closed := false
	redisOpener = func(cfg config.Config) (cache.PaymentCache, func()) {
		return cache.NewNoop(), func() { closed = true }
	}
	config.AppConfig = config.Config{Auth: config.AuthConfig{JWTSecret: "s"}}
	t.Cleanup(func() {
		postgresOpener, redisOpener, config.AppConfig = oldPG, oldRedis, oldCfg
		_ = db.Close()
	})

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: err set or nil components")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("payments without token status=%d", w.Code)
	}

	cleanup()
	if !closed {
		t.Fatalf("cleanup should release the cache")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewAggregator(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.MetricsConfig
		wantErr bool
	}{
		{name: "defaults", cfg: config.MetricsConfig{}},
		{name: "configured", cfg: config.MetricsConfig{RealizedStatuses: []string{"Paid"}, MaxBuckets: 10, Timezone: "Europe/London"}},
		{name: "bad timezone", cfg: config.MetricsConfig{Timezone: "Mars/Olympus"}, wantErr: true},
		{name: "bad status", cfg: config.MetricsConfig{RealizedStatuses: []string{"done"}}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg, err := NewAggregator(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tc.wantErr)
			}
			if !tc.wantErr && agg == nil {
				t.Fatalf("nil aggregator")
			}
		})
	}
}

func TestInitRedis_Disabled(t *testing.T) {
	c, closeFn := InitRedis(config.Config{})
	if c == nil || closeFn == nil {
		t.Fatalf("expected a no-op cache")
	}
	closeFn()
}
