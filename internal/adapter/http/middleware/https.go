package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoboard/pkg/logging"
)

// HTTPSEnforcer redirects plain HTTP traffic in production deployments.
type HTTPSEnforcer struct {
	enabled bool
	logger  *logging.Logger
}

func NewHTTPSEnforcer(enabled bool, logger *logging.Logger) *HTTPSEnforcer {
	return &HTTPSEnforcer{enabled: enabled, logger: logger}
}

func (he *HTTPSEnforcer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !he.enabled {
			c.Next()
			return
		}

		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Next()
			return
		}

		host := c.Request.Host
		if strings.Contains(host, "localhost") || strings.Contains(host, "127.0.0.1") {
			c.Next()
			return
		}

		httpsURL := "https://" + host + c.Request.RequestURI

		he.logger.Info(c.Request.Context(), "Redirecting to HTTPS",
			zap.String("original_url", c.Request.URL.String()),
			zap.String("https_url", httpsURL))

		c.Redirect(http.StatusMovedPermanently, httpsURL)
		c.Abort()
	}
}
