package monitor

import (
	"time"

	"github.com/danmuck/gcproto/internal/observability"
	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

// observeRequests logs each status request and records it under the monitor's
// service name. Successful requests log at debug.
func (m *Monitor) observeRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		observability.RecordHTTPRequest(m.cfg.Name, c.Request.Method, route, status, elapsed)

		event := m.logger.Debug()
		switch {
		case status >= 500:
			event = m.logger.Error()
		case status >= 400:
			event = m.logger.Warn()
		}
		for _, param := range c.Params {
			event = event.Str(param.Key, param.Value)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", elapsed).
			Str("client_ip", c.ClientIP()).
			Msg("status request")
	}
}
