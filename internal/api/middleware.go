package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ellenbowman/satellite-of-love/internal/logger"
	"github.com/ellenbowman/satellite-of-love/internal/metrics"
)

// observe logs and counts every request by route template.
func (r *Router) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.RecordRequest(route, strconv.Itoa(status), elapsed)
		r.log.Debug("request",
			logger.String("method", c.Request.Method),
			logger.String("route", route),
			logger.Int("status", status),
			logger.Duration("duration", elapsed),
		)
	}
}
