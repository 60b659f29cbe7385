package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const testOutcomeKey = "test_outcome"

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(Middleware(testOutcomeKey))
	engine.GET("/metrics", Handler())
	engine.GET("/things/:id", func(c *gin.Context) {
		if c.Param("id") == "denied" {
			c.Set(testOutcomeKey, "forbidden")
			c.AbortWithStatus(http.StatusForbidden)

			return
		}

		c.Set(testOutcomeKey, "allowed")
		c.Status(http.StatusOK)
	})

	return engine
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	engine := newTestEngine()

	testCases := []struct {
		name        string
		path        string
		wantRoute   string
		wantStatus  string
		wantOutcome string
	}{
		{name: "Allowed", path: "/things/1", wantRoute: "/things/:id", wantStatus: "2xx", wantOutcome: "allowed"},
		{name: "Forbidden", path: "/things/denied", wantRoute: "/things/:id", wantStatus: "4xx", wantOutcome: "forbidden"},
		{name: "Unmatched", path: "/nowhere", wantRoute: unmatchedRoute, wantStatus: "4xx"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			beforeRequests := counterValue(t, RequestsTotal, http.MethodGet, tc.wantRoute, tc.wantStatus)
			beforeDuration := histogramCount(t, RequestDuration, http.MethodGet, tc.wantRoute)

			var beforeOutcome float64
			if tc.wantOutcome != "" {
				beforeOutcome = counterValue(t, AuthDecisionsTotal, tc.wantOutcome)
			}

			engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))

			if d := counterValue(t, RequestsTotal, http.MethodGet, tc.wantRoute, tc.wantStatus) - beforeRequests; d != 1 {
				t.Errorf("request count delta = %v, want 1", d)
			}

			if d := histogramCount(t, RequestDuration, http.MethodGet, tc.wantRoute) - beforeDuration; d != 1 {
				t.Errorf("duration sample count delta = %v, want 1", d)
			}

			if tc.wantOutcome != "" {
				if d := counterValue(t, AuthDecisionsTotal, tc.wantOutcome) - beforeOutcome; d != 1 {
					t.Errorf("auth decision %q delta = %v, want 1", tc.wantOutcome, d)
				}
			}
		})
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	engine := newTestEngine()
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/1", nil))

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("recorder.Code = %v, want %v", recorder.Code, http.StatusOK)
	}

	body := recorder.Body.String()
	for _, name := range []string{
		"cashcard_requests_total",
		"cashcard_request_duration_seconds",
		"cashcard_auth_decisions_total",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("/metrics body does not contain %q", name)
		}
	}
}

func TestStatusClass(t *testing.T) {
	testCases := map[int]string{
		200: "2xx",
		201: "2xx",
		404: "4xx",
		503: "5xx",
		0:   "0",
	}

	for code, want := range testCases {
		if got := statusClass(code); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", code, got, want)
		}
	}
}

func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	m := &dto.Metric{}

	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}

	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}

	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, hv *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()

	m := &dto.Metric{}

	obs, err := hv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting histogram metric: %v", err)
	}

	if err := obs.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing histogram metric: %v", err)
	}

	return m.GetHistogram().GetSampleCount()
}
