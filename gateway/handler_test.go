package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/wilayah/dataset"
	"github.com/jacentio/wilayah/gateway"
	"github.com/jacentio/wilayah/loader"
	"github.com/jacentio/wilayah/service"
	"github.com/jacentio/wilayah/store"
)

func newHandler(t *testing.T) *gateway.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.New(context.Background(), loader.NewCSV(dataset.FS(), logger).Loaders(), store.WithLogger(logger))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return gateway.NewHandler(service.New(s, service.WithLogger(logger)), logger)
}

func get(path string, query map[string][]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:                      http.MethodGet,
		Path:                            path,
		MultiValueQueryStringParameters: query,
	}
}

func do(t *testing.T, h *gateway.Handler, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	t.Helper()
	resp, err := h.HandleRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleRequest: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp events.APIGatewayProxyResponse) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(resp.Body), &v); err != nil {
		t.Fatalf("decode %q: %v", resp.Body, err)
	}
	return v
}

func TestNewHandler(t *testing.T) {
	// nil service and logger must not panic at construction
	if gateway.NewHandler(nil, nil) == nil {
		t.Fatal("expected non-nil Handler")
	}
}

func TestHandleRequest_ListProvinces(t *testing.T) {
	h := newHandler(t)

	resp := do(t, h, get("/provinces", map[string][]string{"keyword": {"jawa"}}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	if resp.Headers["Content-Type"] != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", resp.Headers["Content-Type"])
	}

	got := decode[[]map[string]any](t, resp)
	if len(got) != 3 {
		t.Fatalf("expected 3 provinces, got %d", len(got))
	}
	if got[0]["code"] != "32" {
		t.Errorf("expected first province 32, got %v", got[0]["code"])
	}
	if _, ok := got[0]["cities"]; ok {
		t.Error("expected cities to be omitted on listed provinces")
	}
}

func TestHandleRequest_ScopedLists(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name  string
		path  string
		query map[string][]string
		want  int
	}{
		{"cities of province", "/cities", map[string][]string{"province": {"32"}}, 5},
		{"cities of province by keyword", "/cities", map[string][]string{"province": {"32"}, "keyword": {"kota"}}, 3},
		{"all cities", "/cities", nil, 14},
		{"districts of city", "/districts", map[string][]string{"city": {"3273"}}, 3},
		{"villages of district", "/villages", map[string][]string{"district": {"320101"}}, 4},
		{"villages by keyword", "/villages", map[string][]string{"keyword": {"DAGO"}}, 1},
		{"unknown scope", "/villages", map[string][]string{"district": {"000000"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, h, get(tt.path, tt.query))
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			if got := decode[[]map[string]any](t, resp); len(got) != tt.want {
				t.Errorf("expected %d records, got %d", tt.want, len(got))
			}
		})
	}
}

func TestHandleRequest_SingleValueParameters(t *testing.T) {
	h := newHandler(t)

	resp := do(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/provinces/32",
		QueryStringParameters: map[string]string{"include": "cities,districts"},
	})

	p := decode[store.Province](t, resp)
	if len(p.Cities) != 5 || p.Cities[0].Districts == nil {
		t.Errorf("expected cities with districts, got %+v", p)
	}
	if p.Cities[0].Districts[0].Villages != nil {
		t.Error("expected villages to be omitted")
	}
}

func TestHandleRequest_FetchWithIncludes(t *testing.T) {
	h := newHandler(t)

	resp := do(t, h, get("/provinces/32", map[string][]string{"include": {"cities", "districts,villages"}}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decode[store.Province](t, resp)
	if p.Code != "32" || len(p.Cities) != 5 {
		t.Fatalf("unexpected province %+v", p)
	}
	if len(p.Cities[0].Districts) != 2 || len(p.Cities[0].Districts[0].Villages) != 4 {
		t.Errorf("expected full hierarchy under %s", p.Cities[0].Code)
	}
}

func TestHandleRequest_EmptyLevelIsPresent(t *testing.T) {
	h := newHandler(t)

	resp := do(t, h, get("/districts/320401", map[string][]string{"include": {"villages"}}))
	got := decode[map[string]any](t, resp)

	villages, ok := got["villages"]
	if !ok {
		t.Fatal("expected villages key for a requested level")
	}
	if list, ok := villages.([]any); !ok || len(list) != 0 {
		t.Errorf("expected empty list, got %v", villages)
	}

	bare := decode[map[string]any](t, do(t, h, get("/districts/320401", nil)))
	if _, ok := bare["villages"]; ok {
		t.Error("expected villages key to be omitted without include")
	}
}

func TestHandleRequest_NotFound(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		path    string
		message string
	}{
		{"/provinces/99", "province 99 not found"},
		{"/cities/0000", "city 0000 not found"},
		{"/districts/000000", "district 000000 not found"},
		{"/villages/3273011001", "route not found"},
		{"/regencies", "route not found"},
		{"/", "route not found"},
		{"/provinces/32/cities", "route not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := do(t, h, get(tt.path, nil))
			if resp.StatusCode != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", resp.StatusCode)
			}
			if got := decode[map[string]string](t, resp)["error"]; got != tt.message {
				t.Errorf("expected error %q, got %q", tt.message, got)
			}
		})
	}
}

func TestHandleRequest_MethodNotAllowed(t *testing.T) {
	h := newHandler(t)

	resp := do(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/provinces"})
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	if resp.Headers["Allow"] != http.MethodGet {
		t.Errorf("expected Allow: GET, got %q", resp.Headers["Allow"])
	}
}

func TestHandleRequest_BasePathAndTrailingSlash(t *testing.T) {
	h := newHandler(t)
	h.BasePath = "/prod/"

	for _, path := range []string{"/prod/provinces/32", "/prod/provinces/32/", "/provinces/32"} {
		if resp := do(t, h, get(path, nil)); resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}

	if resp := do(t, h, get("/production/provinces", nil)); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected prefix match on whole segments, got %d", resp.StatusCode)
	}
}

func TestHandleRequest_ETag(t *testing.T) {
	h := newHandler(t)

	first := do(t, h, get("/provinces", nil))
	etag := first.Headers["ETag"]
	if etag == "" || first.Headers["X-Snapshot-Id"] == "" {
		t.Fatalf("expected ETag and snapshot headers, got %v", first.Headers)
	}

	req := get("/provinces", nil)
	req.Headers = map[string]string{"if-none-match": etag}
	if resp := do(t, h, req); resp.StatusCode != http.StatusNotModified || resp.Body != "" {
		t.Errorf("expected empty 304, got %d %q", resp.StatusCode, resp.Body)
	}

	req.Headers = map[string]string{"If-None-Match": `"stale"`}
	if resp := do(t, h, req); resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for stale ETag, got %d", resp.StatusCode)
	}
}

func TestHandleRequest_ETagOnlyRevalidatesFound(t *testing.T) {
	h := newHandler(t)
	etag := do(t, h, get("/provinces", nil)).Headers["ETag"]

	for _, path := range []string{"/provinces/no-such-code", "/cities/0000", "/nonsense", "/provinces/32/cities"} {
		for _, match := range []string{"*", etag} {
			req := get(path, nil)
			req.Headers = map[string]string{"If-None-Match": match}
			if resp := do(t, h, req); resp.StatusCode != http.StatusNotFound {
				t.Errorf("%s with If-None-Match %s: expected 404, got %d", path, match, resp.StatusCode)
			}
		}
	}

	req := get("/provinces/32", nil)
	req.Headers = map[string]string{"If-None-Match": "*"}
	if resp := do(t, h, req); resp.StatusCode != http.StatusNotModified {
		t.Errorf("expected 304 for an existing province, got %d", resp.StatusCode)
	}
}

func TestHandleRequest_Snapshot(t *testing.T) {
	h := newHandler(t)

	snap := decode[store.Snapshot](t, do(t, h, get("/snapshot", nil)))
	if snap.Counts[store.KindProvince] != 8 {
		t.Errorf("expected 8 provinces, got %d", snap.Counts[store.KindProvince])
	}
	if snap.Fingerprint == "" {
		t.Error("expected fingerprint")
	}
}

func TestServeHTTP(t *testing.T) {
	h := newHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/cities/3273?include=districts")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("expected ETag header")
	}

	var c store.City
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Code != "3273" || len(c.Districts) != 3 {
		t.Errorf("unexpected city %+v", c)
	}
}

func TestServeHTTP_NotModified(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/provinces", nil))
	etag := rec.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/provinces", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("expected 304, got %d", rec.Code)
	}
}
