package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("down") }

	cases := []struct {
		name       string
		checks     []DependencyCheck
		path       string
		want       int
		wantChecks map[string]string
	}{
		{name: "healthz ignores dependencies", checks: []DependencyCheck{{Name: "database", Ping: down}}, path: "/healthz", want: 200},
		{name: "readyz without checks", path: "/readyz", want: 200, wantChecks: map[string]string{}},
		{
			name:       "readyz ok",
			checks:     []DependencyCheck{{Name: "database", Ping: up}, {Name: "cache", Ping: up, Optional: true}},
			path:       "/readyz",
			want:       200,
			wantChecks: map[string]string{"database": "ok", "cache": "ok"},
		},
		{
			name:       "database down",
			checks:     []DependencyCheck{{Name: "database", Ping: down}},
			path:       "/readyz",
			want:       503,
			wantChecks: map[string]string{"database": "unavailable"},
		},
		{
			name:       "cache down stays ready",
			checks:     []DependencyCheck{{Name: "database", Ping: up}, {Name: "cache", Ping: down, Optional: true}},
			path:       "/readyz",
			want:       200,
			wantChecks: map[string]string{"database": "ok", "cache": "unavailable"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.checks...).Register(r)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
			if tc.wantChecks == nil {
				return
			}
			var body struct {
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Checks) != len(tc.wantChecks) {
				t.Fatalf("checks=%v want %v", body.Checks, tc.wantChecks)
			}
			for k, v := range tc.wantChecks {
				if body.Checks[k] != v {
					t.Fatalf("check %s=%q want %q", k, body.Checks[k], v)
				}
			}
		})
	}
}
