package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// tokenMiddleware checks the static bearer token. With no token configured
// the API is open.
func (h *Handler) tokenMiddleware(c *gin.Context) {
	if h.token == "" {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid token",
		})
		return
	}
	c.Next()
}

const pageRealm = `Basic realm="homeboy", charset="UTF-8"`

// pageAuthorized checks the HTTP Basic password against the static token.
// Any user name is accepted.
func (h *Handler) pageAuthorized(c *gin.Context) bool {
	if h.token == "" {
		return true
	}
	_, pass, ok := c.Request.BasicAuth()
	return ok && subtle.ConstantTimeCompare([]byte(pass), []byte(h.token)) == 1
}

func (h *Handler) requestPageAuth(c *gin.Context) {
	c.Header("WWW-Authenticate", pageRealm)
	c.AbortWithStatus(http.StatusUnauthorized)
}

// pageAuthMiddleware guards the HTML routes that change or reveal the config.
func (h *Handler) pageAuthMiddleware(c *gin.Context) {
	if !h.pageAuthorized(c) {
		h.requestPageAuth(c)
		return
	}
	c.Next()
}
