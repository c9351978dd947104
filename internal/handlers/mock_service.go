package handlers

import (
	"context"
	"net/http"

	"homeboy/internal/models"
	"homeboy/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockConfiguration struct {
	cfg     models.Config
	present bool

	submitErr  error
	lastSubmit string
	submits    int
}

func (m *mockConfiguration) Current() (models.Config, bool) {
	return m.cfg, m.present
}
func (m *mockConfiguration) Load(ctx context.Context) (bool, error) {
	return m.present, nil
}
func (m *mockConfiguration) Submit(ctx context.Context, raw []byte) (models.Config, error) {
	m.submits++
	m.lastSubmit = string(raw)
	if m.submitErr != nil {
		return models.Config{}, m.submitErr
	}
	m.cfg = models.Config{ProjectID: "p", CacheName: "c", Token: "t"}
	m.present = true
	return m.cfg, nil
}

type mockPoller struct {
	snap       models.Snapshot
	refreshErr error
	refreshes  int
	reloads    int
}

func (m *mockPoller) Run(ctx context.Context)  {}
func (m *mockPoller) Reload(cfg models.Config) { m.reloads++ }
func (m *mockPoller) Refresh(ctx context.Context) (models.Snapshot, error) {
	m.refreshes++
	return m.snap, m.refreshErr
}

type mockDashboard struct {
	snap    models.Snapshot
	view    models.DashboardView
	viewErr error
}

func (m *mockDashboard) Snapshot() models.Snapshot { return m.snap }
func (m *mockDashboard) View() (models.DashboardView, error) {
	return m.view, m.viewErr
}

// ---- Shared Test Helpers ----

func newTestService() (*service.Service, *mockConfiguration, *mockPoller, *mockDashboard) {
	cfg := &mockConfiguration{}
	poll := &mockPoller{}
	dash := &mockDashboard{}
	return &service.Service{Configuration: cfg, Poller: poll, Dashboard: dash}, cfg, poll, dash
}

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
