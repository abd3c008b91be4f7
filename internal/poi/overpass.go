// Package poi fetches nearby points of interest from OpenStreetMap via the
// Overpass API.
package poi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/civic-data/hotspot.report/internal/httputil"
)

// Radius bounds in metres. Requests outside the range are clamped, not
// rejected, matching lenient handling of map UI input.
const (
	MinRadius = 50
	MaxRadius = 5000
)

// MaxResults caps the POI list returned to clients.
const MaxResults = 100

// poiTagKeys are the OSM tag families queried when no type filter is given.
var poiTagKeys = []string{"amenity", "tourism", "shop", "leisure", "healthcare"}

// POI is one point of interest near a queried location.
type POI struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client queries an Overpass API endpoint.
type Client struct {
	httpClient httputil.HTTPClient
	endpoint   string
}

// NewClient creates a POI client. A nil httpClient falls back to the
// standard client.
func NewClient(httpClient httputil.HTTPClient, endpoint string) *Client {
	if httpClient == nil {
		httpClient = httputil.NewStandardClient(nil)
	}
	return &Client{httpClient: httpClient, endpoint: endpoint}
}

// Nearby returns up to MaxResults POIs within radius metres of (lat, lon).
// typeFilter optionally restricts results to one tag, e.g. "amenity=pub";
// an empty filter queries all supported tag families.
func (c *Client) Nearby(ctx context.Context, lat, lon float64, radius int, typeFilter string) ([]POI, error) {
	if radius < MinRadius {
		radius = MinRadius
	}
	if radius > MaxRadius {
		radius = MaxRadius
	}

	query := buildQuery(lat, lon, radius, typeFilter)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("poi: building overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poi: overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poi: overpass returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("poi: reading overpass response: %w", err)
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("poi: invalid overpass response: %w", err)
	}

	pois := make([]POI, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		if el.Type != "node" {
			continue
		}
		name := el.name()
		poiType := el.poiType()
		// Skip entries with neither a meaningful name nor a recognizable
		// type; they render as empty markers.
		if name == "" && poiType == "" {
			continue
		}
		if name == "" {
			name = "Unnamed POI"
		}
		if poiType == "" {
			poiType = "Unknown"
		}
		pois = append(pois, POI{
			Name:      name,
			Type:      poiType,
			Latitude:  el.Lat,
			Longitude: el.Lon,
		})
		if len(pois) == MaxResults {
			break
		}
	}
	return pois, nil
}

// buildQuery renders the Overpass QL query for the request.
func buildQuery(lat, lon float64, radius int, typeFilter string) string {
	if key, value, ok := splitTypeFilter(typeFilter); ok {
		return fmt.Sprintf(`[out:json][timeout:25];
(
  node[%q=%q](around:%d,%f,%f);
);
out body;`, key, value, radius, lat, lon)
	}

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, key := range poiTagKeys {
		fmt.Fprintf(&b, "  node[%q](around:%d,%f,%f);\n", key, radius, lat, lon)
	}
	b.WriteString(");\nout body;")
	return b.String()
}

// splitTypeFilter parses a "key=value" filter like "amenity=pub".
func splitTypeFilter(filter string) (key, value string, ok bool) {
	key, value, found := strings.Cut(filter, "=")
	if !found || key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type string            `json:"type"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

func (el overpassElement) name() string {
	for _, key := range []string{"name", "name:en", "alt_name"} {
		if v := el.Tags[key]; v != "" {
			return v
		}
	}
	return ""
}

func (el overpassElement) poiType() string {
	for _, key := range poiTagKeys {
		if v := el.Tags[key]; v != "" {
			return fmt.Sprintf("%s: %s", key, v)
		}
	}
	return ""
}
