package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePolygons(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "polygons.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCSVProvider(t *testing.T) {
	path := writePolygons(t, `region,long,lat,group
Michigan,-86.5,41.7,1
michigan,-82.4,41.7,1
`)

	points, err := NewCSVProvider(path).Polygons()
	if err != nil {
		t.Fatalf("Polygons: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 vertices, got %d", len(points))
	}
	// Region names normalize to the lowercase join key.
	if points[0].Region != "michigan" {
		t.Errorf("expected normalized region, got %q", points[0].Region)
	}
	if points[0].Long != -86.5 || points[0].Lat != 41.7 || points[0].Group != 1 {
		t.Errorf("vertex fields wrong: %+v", points[0])
	}
}

func TestCSVProvider_MissingColumn(t *testing.T) {
	path := writePolygons(t, `region,long,lat
michigan,-86.5,41.7
`)

	_, err := NewCSVProvider(path).Polygons()
	if err == nil {
		t.Fatal("expected error for missing group column")
	}
	if !strings.Contains(err.Error(), "group") {
		t.Errorf("error should name the missing column, got: %v", err)
	}
}

func TestCSVProvider_BadCoordinate(t *testing.T) {
	path := writePolygons(t, `region,long,lat,group
michigan,west,41.7,1
`)

	_, err := NewCSVProvider(path).Polygons()
	if err == nil {
		t.Fatal("expected error for non-numeric longitude")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error should carry the row number, got: %v", err)
	}
}

func TestCSVProvider_MissingFile(t *testing.T) {
	provider := NewCSVProvider(filepath.Join(t.TempDir(), "nope.csv"))
	if _, err := provider.Polygons(); err == nil {
		t.Fatal("expected error for missing file")
	}
}
