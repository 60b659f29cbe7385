package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests no route matched, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// Middleware records request count and duration. When outcomeKey is set by
// a later handler in the chain, the access decision is counted as well.
func Middleware(outcomeKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		RequestsTotal.WithLabelValues(c.Request.Method, route, statusClass(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())

		if outcome := c.GetString(outcomeKey); outcome != "" {
			AuthDecisionsTotal.WithLabelValues(outcome).Inc()
		}
	}
}

// statusClass maps an HTTP status code to its class label, e.g. 404 -> "4xx".
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return strconv.Itoa(code)
	}

	return strconv.Itoa(code/100) + "xx"
}
