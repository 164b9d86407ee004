package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/cache"
	"github.com/copperline/copperline/pkg/drc"
	"github.com/copperline/copperline/pkg/route"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return New(Config{Cache: c})
}

func post(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func routableDocument() board.Document {
	pad := func(id string, x float64) board.Footprint {
		return board.Footprint{
			ID:       id,
			Position: board.Point{X: x, Y: 20},
			Pads: []board.Pad{{
				ID: "1", Net: "N1", Size: board.Size{W: 1, H: 1},
				Shape: board.ShapeCircle, Mount: board.MountSMD,
			}},
		}
	}
	return board.Document{
		Outline: []board.Point{
			{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 40}, {X: 0, Y: 40},
		},
		Footprints: []board.Footprint{pad("A", 10), pad("B", 30)},
		Rules:      board.DefaultRules(),
	}
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRouteEndpoint(t *testing.T) {
	s := testServer(t)
	rec := post(t, s, "/api/v1/route", routeRequest{
		Document: routableDocument(),
		Config:   routeOptions{Resolution: 0.5},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res route.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Routed != 1 || res.Total != 1 {
		t.Errorf("result = %+v, want 1 routed of 1", res)
	}
	if len(res.Tracks) != 1 || res.Tracks[0].Net != "N1" {
		t.Errorf("unexpected tracks: %+v", res.Tracks)
	}
}

func TestRouteEndpointCachesResult(t *testing.T) {
	s := testServer(t)
	req := routeRequest{Document: routableDocument(), Config: routeOptions{Resolution: 0.5}}

	first := post(t, s, "/api/v1/route", req)
	second := post(t, s, "/api/v1/route", req)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status = %d, %d", first.Code, second.Code)
	}
	// Cached responses replay the original result, IDs included.
	if first.Body.String() != second.Body.String() {
		t.Error("second request should replay the cached result")
	}
}

func TestRouteEndpointBadResolution(t *testing.T) {
	s := testServer(t)
	rec := post(t, s, "/api/v1/route", routeRequest{
		Document: routableDocument(),
		Config:   routeOptions{Resolution: -1},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if env.Error.Code != "INVALID_RESOLUTION" {
		t.Errorf("error code = %s, want INVALID_RESOLUTION", env.Error.Code)
	}
}

func TestRouteEndpointMalformedBody(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/route", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDRCEndpoint(t *testing.T) {
	s := testServer(t)
	doc := board.Document{
		Tracks: []board.Track{{
			ID: "t1", Net: "N1", Layer: board.LayerFrontCopper, Width: 0.05,
			Points: []board.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		}},
		Rules: board.DefaultRules(),
	}
	rec := post(t, s, "/api/v1/drc", drcRequest{Document: doc})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var rep drc.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rep.Errors != 1 {
		t.Errorf("report = %+v, want one min-track-width error", rep)
	}
}

func TestDRCEndpointRulesOverride(t *testing.T) {
	s := testServer(t)
	doc := board.Document{
		Tracks: []board.Track{{
			ID: "t1", Net: "N1", Layer: board.LayerFrontCopper, Width: 0.1,
			Points: []board.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		}},
		Rules: board.DefaultRules(), // min width 0.15 would flag the track
	}
	relaxed := board.DesignRules{MinTrackWidth: 0.05}
	rec := post(t, s, "/api/v1/drc", drcRequest{Document: doc, Rules: &relaxed})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var rep drc.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rep.Errors != 0 {
		t.Errorf("override rules should suppress the violation, got %+v", rep)
	}
}
