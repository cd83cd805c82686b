// Package geo supplies state boundary polygons and the left join that pairs
// them with state-level vote rows for choropleth rendering.
package geo

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/electoralab/votecast/internal/model"
)

// PolygonProvider returns boundary vertices keyed by lowercase region name.
type PolygonProvider interface {
	Polygons() ([]model.PolygonPoint, error)
}

// CSVProvider reads polygon vertices from a CSV file with columns
// region, long, lat, group. Vertex order within a group is the ring order.
type CSVProvider struct {
	path string
}

// NewCSVProvider creates a provider backed by the given file.
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{path: path}
}

// Polygons loads and parses the polygon table. Malformed rows are fatal.
func (p *CSVProvider) Polygons() ([]model.PolygonPoint, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read polygon table: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: parse csv: %w", p.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty polygon table", p.path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"region", "long", "lat", "group"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", p.path, required)
		}
	}

	points := make([]model.PolygonPoint, 0, len(records)-1)
	for i, rec := range records[1:] {
		long, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["long"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: long: %w", p.path, i+2, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["lat"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: lat: %w", p.path, i+2, err)
		}
		group, err := strconv.Atoi(strings.TrimSpace(rec[cols["group"]]))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: group: %w", p.path, i+2, err)
		}
		points = append(points, model.PolygonPoint{
			Region: model.RegionKey(rec[cols["region"]]),
			Long:   long,
			Lat:    lat,
			Group:  group,
		})
	}
	return points, nil
}
