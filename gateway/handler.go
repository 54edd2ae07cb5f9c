// Package gateway serves the query API as an API Gateway proxy integration.
//
// Routes (GET only):
//
//	/provinces?keyword=             /provinces/{code}?include=
//	/cities?province=&keyword=      /cities/{code}?include=
//	/districts?city=&keyword=       /districts/{code}?include=
//	/villages?district=&keyword=
//	/snapshot
//
// include takes comma-separated levels and may be repeated. Every response
// carries the store fingerprint as its ETag.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/wilayah/service"
)

// Handler routes API Gateway proxy requests to a Service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger

	// BasePath is stripped from request paths before routing (e.g., "/prod").
	BasePath string
}

// NewHandler creates a new gateway handler.
func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: svc,
		logger:  logger,
	}
}

// HandleRequest answers one API Gateway proxy request.
// This function is designed to be used as an AWS Lambda handler. Failures are
// reported in the response, so the returned error is always nil.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp := h.route(req)
	h.logger.Debug("request handled",
		"method", req.HTTPMethod,
		"path", req.Path,
		"status", resp.StatusCode,
	)
	return resp, nil
}

func (h *Handler) route(req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	segments := h.segments(req.Path)
	if len(segments) == 0 || len(segments) > 2 {
		return errorResponse(http.StatusNotFound, "route not found")
	}
	if req.HTTPMethod != http.MethodGet {
		resp := errorResponse(http.StatusMethodNotAllowed, "method not allowed")
		resp.Headers["Allow"] = http.MethodGet
		return resp
	}

	snap := h.service.Snapshot()
	etag := `"` + snap.Fingerprint + `"`

	q := params{req}
	var (
		body  any
		found = true
	)

	switch resource := segments[0]; {
	case len(segments) == 1 && resource == "snapshot":
		body = snap
	case len(segments) == 1 && resource == "provinces":
		body = h.service.Provinces(q.get("keyword"))
	case len(segments) == 1 && resource == "cities":
		body = h.service.Cities(q.get("province"), q.get("keyword"))
	case len(segments) == 1 && resource == "districts":
		body = h.service.Districts(q.get("city"), q.get("keyword"))
	case len(segments) == 1 && resource == "villages":
		body = h.service.Villages(q.get("district"), q.get("keyword"))
	case len(segments) == 2 && resource == "provinces":
		p := h.service.Province(segments[1], q.includes())
		body, found = p, p != nil
	case len(segments) == 2 && resource == "cities":
		c := h.service.City(segments[1], q.includes())
		body, found = c, c != nil
	case len(segments) == 2 && resource == "districts":
		d := h.service.District(segments[1], q.includes())
		body, found = d, d != nil
	default:
		return errorResponse(http.StatusNotFound, "route not found")
	}

	if !found {
		return errorResponse(http.StatusNotFound, singular(segments[0])+" "+segments[1]+" not found")
	}

	// Only a response that would be 200 can be revalidated.
	if matchesETag(header(req, "If-None-Match"), etag) {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusNotModified,
			Headers:    map[string]string{"ETag": etag, "X-Snapshot-Id": snap.ID},
		}
	}

	resp, err := jsonResponse(http.StatusOK, body)
	if err != nil {
		h.logger.Error("failed to encode response", "path", req.Path, "error", err)
		return errorResponse(http.StatusInternalServerError, "internal error")
	}
	resp.Headers["ETag"] = etag
	resp.Headers["X-Snapshot-Id"] = snap.ID
	return resp
}

// segments returns the non-empty path segments below BasePath.
func (h *Handler) segments(path string) []string {
	if base := strings.TrimRight(h.BasePath, "/"); base != "" {
		if path == base || strings.HasPrefix(path, base+"/") {
			path = path[len(base):]
		}
	}

	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ServeHTTP adapts the handler to net/http.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := events.APIGatewayProxyRequest{
		HTTPMethod:                      r.Method,
		Path:                            r.URL.Path,
		Headers:                         make(map[string]string, len(r.Header)),
		MultiValueHeaders:               r.Header,
		MultiValueQueryStringParameters: r.URL.Query(),
	}
	for k := range r.Header {
		req.Headers[k] = r.Header.Get(k)
	}

	resp, err := h.HandleRequest(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

// params reads query string parameters from either representation.
type params struct {
	req events.APIGatewayProxyRequest
}

func (p params) get(name string) string {
	if vs := p.req.MultiValueQueryStringParameters[name]; len(vs) > 0 {
		return vs[0]
	}
	return p.req.QueryStringParameters[name]
}

// includes returns every include value. Values may be comma-separated lists.
func (p params) includes() []string {
	if values := p.req.MultiValueQueryStringParameters["include"]; len(values) > 0 {
		return values
	}
	if v, ok := p.req.QueryStringParameters["include"]; ok {
		return []string{v}
	}
	return nil
}

// header looks up a request header case-insensitively.
func header(req events.APIGatewayProxyRequest, name string) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	for k, vs := range req.MultiValueHeaders {
		if strings.EqualFold(k, name) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

func matchesETag(ifNoneMatch, etag string) bool {
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func singular(resource string) string {
	switch resource {
	case "provinces":
		return "province"
	case "cities":
		return "city"
	case "districts":
		return "district"
	}
	return resource
}

func jsonResponse(status int, body any) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:       string(data),
	}, nil
}

func errorResponse(status int, msg string) events.APIGatewayProxyResponse {
	resp, _ := jsonResponse(status, map[string]string{"error": msg})
	return resp
}
