package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homeboy/internal/models"
	"homeboy/internal/service"
)

func TestHealth(t *testing.T) {
	s, cfg, _, _ := newTestService()
	cfg.present = true
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
	var out struct {
		Status     string `json:"status"`
		Configured bool   `json:"configured"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Status != statusOK || !out.Configured {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestMetricsRoute(t *testing.T) {
	s, _, _, _ := newTestService()
	m := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("homeboy_poll_cycles_total 1\n"))
	})
	r := newTestRouter(s, WithMetrics(m))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "homeboy_poll_cycles_total") {
		t.Fatalf("metrics status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAPI_RequiresTokenWhenConfigured(t *testing.T) {
	s, _, _, _ := newTestService()
	r := newTestRouter(s, WithToken("s3cret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	for k, vv := range authHeader("s3cret") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with auth, got %d", w.Code)
	}
}

func TestGetConfig(t *testing.T) {
	s, cfg, _, _ := newTestService()
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before config, got %d", w.Code)
	}

	cfg.cfg = models.Config{ProjectID: "proj", CacheName: "home", Token: "t", RefreshRateMs: 5000}
	cfg.present = true
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got models.Config
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.CacheName != "home" || got.RefreshRateMs != 5000 {
		t.Fatalf("unexpected config: %+v", got)
	}
}

func TestPutConfig(t *testing.T) {
	body := `{"projectId":"p","cacheName":"c","token":"t","sensors":[]}`

	t.Run("valid", func(t *testing.T) {
		s, cfg, _, _ := newTestService()
		r := newTestRouter(s)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/config", strings.NewReader(body)))
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		if cfg.lastSubmit != body {
			t.Fatalf("submitted %q", cfg.lastSubmit)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		s, cfg, _, _ := newTestService()
		cfg.submitErr = &service.ConfigError{Err: errors.New("token is required")}
		r := newTestRouter(s)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/config", strings.NewReader("{}")))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "token is required") {
			t.Fatalf("error not reported: %s", w.Body.String())
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		s, cfg, _, _ := newTestService()
		cfg.submitErr = fmt.Errorf("save dashboard config: %w", errors.New("disk full"))
		r := newTestRouter(s)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/config", strings.NewReader(body)))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "disk full") {
			t.Fatalf("internal error leaked: %s", w.Body.String())
		}
	})
}

func TestGetState(t *testing.T) {
	s, _, _, dash := newTestService()
	dash.snap = models.Snapshot{Values: models.SensorState{"fd_open": "open"}, UpdatedAt: time.Now(), CycleID: "c1"}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got models.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Values["fd_open"] != "open" || got.CycleID != "c1" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestGetSensors(t *testing.T) {
	s, _, _, dash := newTestService()
	r := newTestRouter(s)

	dash.viewErr = service.ErrNoConfig
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sensors", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	dash.viewErr = nil
	dash.view = models.DashboardView{
		LastUpdated: "October 18th, 3:04:05pm",
		Cards:       []models.SensorCard{{Name: "Front Door", State: "open", Icon: service.IconDoorOpen}},
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sensors", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got models.DashboardView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Cards) != 1 || got.Cards[0].State != "open" {
		t.Fatalf("unexpected view: %+v", got)
	}
}

func TestRefresh(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"not configured", service.ErrNoConfig, http.StatusConflict},
		{"cycle failed", errors.New("poll cycle: cache returned 500"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _, poll, _ := newTestService()
			poll.refreshErr = tc.err
			r := newTestRouter(s)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil))
			if w.Code != tc.want {
				t.Fatalf("status=%d, want %d", w.Code, tc.want)
			}
			if poll.refreshes != 1 {
				t.Fatalf("Refresh called %d times", poll.refreshes)
			}
		})
	}
}
