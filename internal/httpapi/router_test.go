package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bengobox/advisor-service/internal/advisor"
	"github.com/bengobox/advisor-service/internal/httpapi/handlers"
	httpmiddleware "github.com/bengobox/advisor-service/internal/httpapi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap/zaptest"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics, err := httpmiddleware.NewMetrics(reg, "advisor")
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	logger := zaptest.NewLogger(t)

	router := NewRouter(RouterDeps{
		Logger:         logger,
		HealthHandler:  handlers.Health,
		AdvisorHandler: handlers.NewAdvisorHandler(advisor.NewStub(), logger).Advise,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Metrics:        metrics,
		MaxBodyBytes:   1 << 10,
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, strings.TrimSpace(string(data))
}

func TestRouter_Endpoints(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK, `{"status":"ok"}`},
		{"advisor echoes object", http.MethodPost, "/advisor", `{"segment":"test"}`, http.StatusOK, `{"advice":"Segment stub","input":{"segment":"test"}}`},
		{"advisor empty body", http.MethodPost, "/advisor", "", http.StatusOK, `{"advice":"Segment stub","input":{}}`},
		{"advisor malformed body", http.MethodPost, "/advisor", `not json`, http.StatusOK, `{"advice":"Segment stub","input":{}}`},
		{"advisor invalid utf-8 body", http.MethodPost, "/advisor", "{\"a\":\"\xff\"}", http.StatusOK, `{"advice":"Segment stub","input":{}}`},
		{"advisor scalar body", http.MethodPost, "/advisor", `"segment"`, http.StatusOK, `{"advice":"Segment stub","input":{}}`},
		{"unknown path", http.MethodGet, "/nope", "", http.StatusNotFound, `{"error":"not found","code":"not_found"}`},
		{"wrong method", http.MethodGet, "/advisor", "", http.StatusMethodNotAllowed, `{"error":"method not allowed","code":"method_not_allowed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doRequest(t, tt.method, ts.URL+tt.path, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if body != tt.wantBody {
				t.Errorf("got body %s, want %s", body, tt.wantBody)
			}
			if resp.Header.Get(httpmiddleware.RequestIDHeader) == "" {
				t.Error("expected X-Request-ID header")
			}
		})
	}
}

func TestRouter_AdvisorOversizedBody(t *testing.T) {
	logger := zaptest.NewLogger(t)
	router := NewRouter(RouterDeps{
		Logger:         logger,
		AdvisorHandler: handlers.NewAdvisorHandler(advisor.NewStub(), logger).Advise,
		MaxBodyBytes:   16,
	})

	body := `{"blob":"` + strings.Repeat("x", 64) + `"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/advisor", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"advice":"Segment stub","input":{}}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestRouter_AdvisorRoundTrip(t *testing.T) {
	ts := setupTestServer(t)

	bodies := []string{
		`{"segment":"test"}`,
		`{"segment":"retail","score":0.75,"tags":["a","b"],"active":true,"meta":null}`,
		`{"deep":{"deeper":{"deepest":[{"k":1}]}}}`,
	}
	for _, in := range bodies {
		_, body := doRequest(t, http.MethodPost, ts.URL+"/advisor", in)

		var got struct {
			Advice string          `json:"advice"`
			Input  json.RawMessage `json:"input"`
		}
		if err := json.Unmarshal([]byte(body), &got); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		if got.Advice != advisor.StubAdvice {
			t.Errorf("expected advice %q, got %q", advisor.StubAdvice, got.Advice)
		}
		if string(got.Input) != in {
			t.Errorf("expected input %s echoed, got %s", in, got.Input)
		}
	}
}

func TestRouter_Idempotent(t *testing.T) {
	ts := setupTestServer(t)

	_, firstHealth := doRequest(t, http.MethodGet, ts.URL+"/health", "")
	_, firstAdvice := doRequest(t, http.MethodPost, ts.URL+"/advisor", `{"segment":"test"}`)
	for i := 0; i < 5; i++ {
		if _, body := doRequest(t, http.MethodGet, ts.URL+"/health", ""); body != firstHealth {
			t.Fatalf("health response changed: %s vs %s", body, firstHealth)
		}
		if _, body := doRequest(t, http.MethodPost, ts.URL+"/advisor", `{"segment":"test"}`); body != firstAdvice {
			t.Fatalf("advisor response changed: %s vs %s", body, firstAdvice)
		}
	}
}

func TestRouter_Metrics(t *testing.T) {
	ts := setupTestServer(t)

	doRequest(t, http.MethodGet, ts.URL+"/health", "")
	doRequest(t, http.MethodPost, ts.URL+"/advisor", `{}`)

	resp, body := doRequest(t, http.MethodGet, ts.URL+"/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{
		`advisor_http_requests_total{method="GET",route="/health",status="200"} 1`,
		`advisor_http_requests_total{method="POST",route="/advisor",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q", want)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/advisor", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard allow-origin, got %q", got)
	}
}

func TestRouter_PanicsReachReporter(t *testing.T) {
	var reported int
	report := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					reported++
					panic(rec)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}

	router := NewRouter(RouterDeps{
		Logger: zaptest.NewLogger(t),
		AdvisorHandler: func(http.ResponseWriter, *http.Request) {
			panic("advisor exploded")
		},
		ReportErrors: report,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/advisor", strings.NewReader(`{}`)))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if reported != 1 {
		t.Errorf("expected 1 reported panic, got %d", reported)
	}
}
