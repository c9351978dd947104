package handlers

import (
	"errors"
	"io"
	"net/http"

	"homeboy/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errNotConfigured = "dashboard is not configured"
	errReadBody      = "failed to read request body"
	errSaveConfig    = "failed to save config"
	errRefresh       = "poll cycle failed"
	errBuildView     = "failed to build dashboard"
)

// maxConfigBytes bounds config uploads.
const maxConfigBytes = 1 << 20

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Warnw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	_, configured := h.services.Configuration.Current()
	c.JSON(http.StatusOK, gin.H{
		"status":     statusOK,
		"configured": configured,
	})
}

// @Summary      Get dashboard config
// @Tags         config
// @Produce      json
// @Success      200  {object}  models.Config
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/config [get]
// @Security     BearerAuth
func (h *Handler) getConfig(c *gin.Context) {
	cfg, ok := h.services.Configuration.Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotConfigured})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary      Replace dashboard config
// @Description  Validates and stores the config, then restarts polling with an immediate cycle.
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        body  body      models.Config  true  "Dashboard config"
// @Success      200   {object}  models.Config
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/config [put]
// @Security     BearerAuth
func (h *Handler) putConfig(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxConfigBytes))
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, errReadBody, "config_read_failed", err)
		return
	}
	cfg, err := h.services.Configuration.Submit(c.Request.Context(), raw)
	if err != nil {
		var cerr *service.ConfigError
		if errors.As(err, &cerr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": cerr.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveConfig, "config_save_failed", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary      Raw sensor state
// @Description  Latest cache values keyed by cache key, from the last completed poll cycle.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Dashboard.Snapshot())
}

// @Summary      Rendered sensor cards
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.DashboardView
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/sensors [get]
// @Security     BearerAuth
func (h *Handler) getSensors(c *gin.Context) {
	view, err := h.services.Dashboard.View()
	if err != nil {
		if errors.Is(err, service.ErrNoConfig) {
			c.JSON(http.StatusConflict, gin.H{"error": errNotConfigured})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errBuildView, "dashboard_view_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Poll now
// @Description  Runs one poll cycle synchronously. A failed cycle leaves the previous state in place.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/refresh [post]
// @Security     BearerAuth
func (h *Handler) refresh(c *gin.Context) {
	snap, err := h.services.Poller.Refresh(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoConfig) {
			c.JSON(http.StatusConflict, gin.H{"error": errNotConfigured})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errRefresh, "refresh_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
