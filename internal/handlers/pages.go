package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"homeboy/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	tmplConfig    = "config.html"
	tmplDashboard = "dashboard.html"
)

type configPage struct {
	Config  string
	Error   string
	Editing bool
}

// index shows the dashboard once a config is present, otherwise the
// config-entry form. ?edit=1 reopens the form with the current config.
func (h *Handler) index(c *gin.Context) {
	cfg, ok := h.services.Configuration.Current()
	// the edit form carries the cache token
	if ok && c.Query("edit") != "" && !h.pageAuthorized(c) {
		h.requestPageAuth(c)
		return
	}
	if !ok || c.Query("edit") != "" {
		page := configPage{Editing: ok}
		if ok {
			if b, err := json.MarshalIndent(cfg, "", "  "); err == nil {
				page.Config = string(b)
			}
		}
		c.HTML(http.StatusOK, tmplConfig, page)
		return
	}

	view, err := h.services.Dashboard.View()
	if err != nil {
		if errors.Is(err, service.ErrNoConfig) {
			c.HTML(http.StatusOK, tmplConfig, configPage{})
			return
		}
		if h.log != nil {
			h.log.Warnw("dashboard_view_failed", "err", err)
		}
		c.String(http.StatusInternalServerError, errBuildView)
		return
	}
	c.HTML(http.StatusOK, tmplDashboard, view)
}

func (h *Handler) submitConfigForm(c *gin.Context) {
	raw := c.PostForm("config")
	_, err := h.services.Configuration.Submit(c.Request.Context(), []byte(raw))
	if err == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	_, editing := h.services.Configuration.Current()
	page := configPage{Config: raw, Error: err.Error(), Editing: editing}
	var cerr *service.ConfigError
	if errors.As(err, &cerr) {
		c.HTML(http.StatusBadRequest, tmplConfig, page)
		return
	}
	if h.log != nil {
		h.log.Warnw("config_save_failed", "err", err)
	}
	page.Error = errSaveConfig
	c.HTML(http.StatusInternalServerError, tmplConfig, page)
}
