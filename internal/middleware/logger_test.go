package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name          string
		requestID     string
		handlerStatus int
		panics        bool
		wantStatus    int
		wantLevel     string
	}{
		{name: "GeneratesRequestID", handlerStatus: http.StatusOK, wantStatus: http.StatusOK, wantLevel: "info"},
		{name: "PropagatesRequestID", requestID: "req-1", handlerStatus: http.StatusNotFound, wantStatus: http.StatusNotFound, wantLevel: "info"},
		{name: "ServerError", handlerStatus: http.StatusInternalServerError, wantStatus: http.StatusInternalServerError, wantLevel: "error"},
		{name: "Panic", panics: true, wantStatus: http.StatusInternalServerError, wantLevel: "error"},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			var ctxRequestID string

			server := gin.New()
			server.Use(RequestLogger(zerolog.New(&buf)))
			server.GET("/ping", func(gctx *gin.Context) {
				ctxRequestID = gctx.Request.Header.Get(RequestIDHeader)
				zerolog.Ctx(gctx.Request.Context()).Info().Msg("inside")

				if tc.panics {
					panic("boom")
				}

				gctx.Status(tc.handlerStatus)
			})

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.requestID != "" {
				request.Header.Set(RequestIDHeader, tc.requestID)
			}

			server.ServeHTTP(recorder, request)

			if recorder.Code != tc.wantStatus {
				t.Errorf("recorder.Code = %v, want %v", recorder.Code, tc.wantStatus)
			}

			gotID := recorder.Header().Get(RequestIDHeader)
			if gotID == "" || gotID != ctxRequestID {
				t.Errorf("response %s = %q, request saw %q", RequestIDHeader, gotID, ctxRequestID)
			}

			if tc.requestID != "" && gotID != tc.requestID {
				t.Errorf("response %s = %q, want %q", RequestIDHeader, gotID, tc.requestID)
			}

			var lines []map[string]any

			dec := json.NewDecoder(&buf)
			for dec.More() {
				line := map[string]any{}
				if err := dec.Decode(&line); err != nil {
					t.Fatalf("Decoding log line error: %v", err)
				}

				lines = append(lines, line)
			}

			if len(lines) < 2 {
				t.Fatalf("got %d log lines, want at least 2", len(lines))
			}

			for _, line := range lines {
				if line["request_id"] != gotID {
					t.Errorf("log line request_id = %v, want %q", line["request_id"], gotID)
				}
			}

			last := lines[len(lines)-1]
			if last["level"] != tc.wantLevel {
				t.Errorf("access log level = %v, want %q", last["level"], tc.wantLevel)
			}

			if last["path"] != "/ping" {
				t.Errorf("access log path = %v, want /ping", last["path"])
			}
		})
	}
}
