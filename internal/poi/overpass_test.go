package poi

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/civic-data/hotspot.report/internal/httputil"
)

const overpassFixture = `{
	"elements": [
		{"type": "node", "lat": 53.3498, "lon": -6.2603,
		 "tags": {"name": "The Long Hall", "amenity": "pub"}},
		{"type": "node", "lat": 53.3501, "lon": -6.2610,
		 "tags": {"tourism": "hotel"}},
		{"type": "node", "lat": 53.3502, "lon": -6.2611, "tags": {}},
		{"type": "way", "lat": 0, "lon": 0,
		 "tags": {"name": "ignored", "amenity": "parking"}}
	]
}`

func TestNearby_ParsesElements(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(200, overpassFixture)
	client := NewClient(mock, "https://overpass.example/api/interpreter")

	pois, err := client.Nearby(context.Background(), 53.3498, -6.2603, 500, "")
	if err != nil {
		t.Fatalf("Nearby failed: %v", err)
	}
	if len(pois) != 2 {
		t.Fatalf("expected 2 POIs, got %d: %v", len(pois), pois)
	}
	if pois[0].Name != "The Long Hall" || pois[0].Type != "amenity: pub" {
		t.Errorf("unexpected first POI: %+v", pois[0])
	}
	if pois[1].Name != "Unnamed POI" || pois[1].Type != "tourism: hotel" {
		t.Errorf("unexpected second POI: %+v", pois[1])
	}
}

func TestNearby_QueryContainsAllTagFamilies(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(200, `{"elements": []}`)
	client := NewClient(mock, "https://overpass.example/api/interpreter")

	if _, err := client.Nearby(context.Background(), 53.0, -6.0, 500, ""); err != nil {
		t.Fatalf("Nearby failed: %v", err)
	}

	body, err := io.ReadAll(mock.Requests[0].Body)
	if err != nil {
		t.Fatal(err)
	}
	query := string(body)
	for _, key := range poiTagKeys {
		if !strings.Contains(query, key) {
			t.Errorf("query missing tag family %q:\n%s", key, query)
		}
	}
}

func TestNearby_TypeFilterNarrowsQuery(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(200, `{"elements": []}`)
	client := NewClient(mock, "https://overpass.example/api/interpreter")

	if _, err := client.Nearby(context.Background(), 53.0, -6.0, 500, "amenity=pub"); err != nil {
		t.Fatalf("Nearby failed: %v", err)
	}

	body, _ := io.ReadAll(mock.Requests[0].Body)
	query := string(body)
	if !strings.Contains(query, `"amenity"="pub"`) {
		t.Errorf("query missing type filter:\n%s", query)
	}
	if strings.Contains(query, "tourism") {
		t.Errorf("filtered query should not include other tag families:\n%s", query)
	}
}

func TestNearby_RadiusClamped(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(200, `{"elements": []}`).AddResponse(200, `{"elements": []}`)
	client := NewClient(mock, "https://overpass.example/api/interpreter")

	ctx := context.Background()
	if _, err := client.Nearby(ctx, 53.0, -6.0, 10, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Nearby(ctx, 53.0, -6.0, 100000, ""); err != nil {
		t.Fatal(err)
	}

	small, _ := io.ReadAll(mock.Requests[0].Body)
	large, _ := io.ReadAll(mock.Requests[1].Body)
	if !strings.Contains(string(small), "around:50,") {
		t.Errorf("small radius not clamped up to %d:\n%s", MinRadius, small)
	}
	if !strings.Contains(string(large), "around:5000,") {
		t.Errorf("large radius not clamped down to %d:\n%s", MaxRadius, large)
	}
}

func TestNearby_TransportError(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddErrorResponse(errors.New("connection refused"))
	client := NewClient(mock, "https://overpass.example/api/interpreter")

	if _, err := client.Nearby(context.Background(), 53.0, -6.0, 500, ""); err == nil {
		t.Error("expected transport error to surface")
	}
}

func TestNearby_UpstreamStatusError(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(504, "gateway timeout")
	client := NewClient(mock, "https://overpass.example/api/interpreter")

	if _, err := client.Nearby(context.Background(), 53.0, -6.0, 500, ""); err == nil {
		t.Error("expected upstream status error to surface")
	}
}

func TestNearby_InvalidJSON(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(200, "<html>not json</html>")
	client := NewClient(mock, "https://overpass.example/api/interpreter")

	if _, err := client.Nearby(context.Background(), 53.0, -6.0, 500, ""); err == nil {
		t.Error("expected JSON parse error to surface")
	}
}
