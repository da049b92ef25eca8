package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphit/internal/config"
	"github.com/matzehuels/graphit/internal/service"
	"github.com/matzehuels/graphit/pkg/store"
)

const sample = `{"nodes":[{"id":"a","label":"payment queue"},{"id":"b","label":"billing worker"}],"links":[{"source":"a","target":"b"}]}`

func newTestServer(t *testing.T) (*httptest.Server, *Metrics) {
	t.Helper()
	metrics := NewMetrics()
	st := store.Instrument(store.NewMemoryStore(), store.BackendMemory, metrics)
	svc := service.New(st, metrics.Hooks())
	srv := New(config.ServerConfig{CORSOrigins: []string{"https://editor.example"}}, 20, svc, metrics, log.New(io.Discard))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, metrics
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(data)
}

func create(t *testing.T, ts *httptest.Server, body string) string {
	t.Helper()
	resp, out := do(t, http.MethodPost, ts.URL+"/documents?name=infra", "application/json", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.StatusCode, out)
	}
	var info entryInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatal(err)
	}
	if info.ID == "" || info.Name != "infra" {
		t.Fatalf("create response = %+v", info)
	}
	return info.ID
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	id := create(t, ts, sample)

	resp, body := do(t, http.MethodGet, ts.URL+"/documents/"+id, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Document-Name"); got != "infra" {
		t.Errorf("X-Document-Name = %q, want infra", got)
	}
	if !strings.Contains(body, `"version": 1`) || !strings.Contains(body, `"payment queue"`) {
		t.Errorf("get body = %s", body)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/documents", "", "")
	var list []entryInfo
	if err := json.Unmarshal([]byte(body), &list); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list = %d %s (%v)", resp.StatusCode, body, err)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Errorf("list = %+v", list)
	}

	resp, _ = do(t, http.MethodPut, ts.URL+"/documents/"+id, "application/yaml", "nodes:\n  - id: z\n    label: zeta\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}
	_, body = do(t, http.MethodGet, ts.URL+"/documents/"+id+"?format=yaml", "", "")
	if !strings.Contains(body, "label: zeta") || strings.Contains(body, "payment") {
		t.Errorf("yaml body after replace = %s", body)
	}

	resp, _ = do(t, http.MethodDelete, ts.URL+"/documents/"+id, "", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, body = do(t, http.MethodGet, ts.URL+"/documents/"+id, "", "")
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(body, "NOT_FOUND") {
		t.Errorf("get after delete = %d %s", resp.StatusCode, body)
	}
}

func TestMergeEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	id := create(t, ts, sample)

	resp, body := do(t, http.MethodPost, ts.URL+"/documents/"+id+"/merge", "application/json",
		`{"nodes":[{"id":"a"},{"id":"c","label":"cache"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("merge status = %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"payment queue"`) || !strings.Contains(body, `"cache"`) || strings.Contains(body, `"billing worker"`) {
		t.Errorf("merged document = %s", body)
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/documents/"+id+"/merge", "application/json", `[1,2]`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("merge with array body status = %d, want 400", resp.StatusCode)
	}
}

func TestMergeInvalidResultNotStored(t *testing.T) {
	ts, _ := newTestServer(t)
	id := create(t, ts, sample)

	resp, body := do(t, http.MethodPost, ts.URL+"/documents/"+id+"/merge", "application/json",
		`{"links":[{"source":"a","target":"b","stroke":"wiggly"}],"zoomState":null}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("merge status = %d, want 422, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "VALIDATION_ERROR") {
		t.Errorf("merge body = %s", body)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/documents/"+id, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get after rejected merge status = %d, body %s", resp.StatusCode, body)
	}
	if strings.Contains(body, "wiggly") || !strings.Contains(body, `"billing worker"`) {
		t.Errorf("stored document changed: %s", body)
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	id := create(t, ts, sample)

	resp, body := do(t, http.MethodGet, ts.URL+"/documents/"+id+"/search?q=billing", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}
	var got searchResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Results) != 1 || got.Results[0].ID != "b" {
		t.Errorf("search results = %+v", got.Results)
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/documents/"+id+"/search?q=a&limit=x", "", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", resp.StatusCode)
	}
}

func TestErrorStatus(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
		code string
	}{
		{"malformed json", `{"nodes":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unsupported version", `{"version":99}`, http.StatusBadRequest, "UNSUPPORTED_VERSION"},
		{"dangling link", `{"links":[{"source":"x","target":"y"}]}`, http.StatusUnprocessableEntity, "DANGLING_REFERENCE"},
		{"bad field type", `{"nodes":[{"id":1}]}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/documents", "application/json", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.want, body)
			}
			var eb errorBody
			if err := json.Unmarshal([]byte(body), &eb); err != nil {
				t.Fatal(err)
			}
			if eb.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", eb.Error.Code, tt.code)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/documents", nil)
	req.Header.Set("Origin", "https://editor.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://editor.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	create(t, ts, sample)

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`graphit_document_operations_total{operation="load",result="ok"} 1`,
		`graphit_store_operations_total{backend="memory",operation="put",result="ok"} 1`,
		`graphit_http_requests_total{method="POST"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(io.EOF); got != http.StatusInternalServerError {
		t.Errorf("statusFor(plain error) = %d, want 500", got)
	}
}
