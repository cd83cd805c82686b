package load

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/electoralab/votecast/internal/cache"
	"github.com/electoralab/votecast/internal/model"
)

func writeFixture(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestPopularVote(t *testing.T) {
	path := writeFixture(t, "popvote.csv", `year,party,candidate,pv2p
2016,democrat,Clinton,51.1
2016,republican,Trump,48.9
2020,democrat,Biden,52.3
2020,republican,Trump,47.7
`)

	loader := NewLoader(nil, 0)
	rows, err := loader.PopularVote(path)
	if err != nil {
		t.Fatalf("PopularVote: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Year != 2016 || rows[0].Party != model.PartyDemocrat || rows[0].Candidate != "Clinton" {
		t.Errorf("first row wrong: %+v", rows[0])
	}
	if rows[3].Pv2p != 47.7 {
		t.Errorf("expected pv2p 47.7, got %f", rows[3].Pv2p)
	}
}

func TestPopularVote_UnknownParty(t *testing.T) {
	path := writeFixture(t, "popvote.csv", `year,party,candidate,pv2p
1912,progressive,Roosevelt,27.4
`)

	loader := NewLoader(nil, 0)
	_, err := loader.PopularVote(path)
	if err == nil {
		t.Fatal("expected error for unknown party")
	}
	if !strings.Contains(err.Error(), "unknown party") {
		t.Errorf("error should name the party problem, got: %v", err)
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error should carry the row number, got: %v", err)
	}
}

func TestPopularVote_MissingColumn(t *testing.T) {
	path := writeFixture(t, "popvote.csv", `year,party,candidate
2020,democrat,Biden
`)

	loader := NewLoader(nil, 0)
	_, err := loader.PopularVote(path)
	if err == nil {
		t.Fatal("expected error for missing pv2p column")
	}
	if !strings.Contains(err.Error(), "pv2p") {
		t.Errorf("error should name the missing column, got: %v", err)
	}
}

func TestPopularVote_FileNotFound(t *testing.T) {
	loader := NewLoader(nil, 0)
	_, err := loader.PopularVote(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStateVotes(t *testing.T) {
	path := writeFixture(t, "states.csv", `year,state,R_pv2p,D_pv2p,R_pv2p_lag1,D_pv2p_lag1
2020,New York,38.2,61.8,37.5,62.5
2020,Texas,53.0,47.0,55.0,45.0
`)

	loader := NewLoader(nil, 0)
	rows, err := loader.StateVotes(path)
	if err != nil {
		t.Fatalf("StateVotes: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	ny := rows[0]
	if ny.State != "New York" || ny.Region != "new york" {
		t.Errorf("region not derived from state: %+v", ny)
	}
	if ny.RPv2pLag1 != 37.5 || ny.DPv2pLag1 != 62.5 {
		t.Errorf("lag columns wrong: %+v", ny)
	}
}

func TestStateVotes_BadNumber(t *testing.T) {
	path := writeFixture(t, "states.csv", `year,state,R_pv2p,D_pv2p,R_pv2p_lag1,D_pv2p_lag1
2020,Ohio,fifty,47.0,54.0,46.0
`)

	loader := NewLoader(nil, 0)
	_, err := loader.StateVotes(path)
	if err == nil {
		t.Fatal("expected error for non-numeric share")
	}
	if !strings.Contains(err.Error(), "r_pv2p") {
		t.Errorf("error should name the bad column, got: %v", err)
	}
}

func TestAllocations(t *testing.T) {
	path := writeFixture(t, "electors.csv", `state,year,electors
California,2024,54
Wyoming,2024,3
`)

	loader := NewLoader(nil, 0)
	rows, err := loader.Allocations(path)
	if err != nil {
		t.Fatalf("Allocations: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].State != "California" || rows[0].Electors != 54 {
		t.Errorf("first row wrong: %+v", rows[0])
	}
}

func TestLoader_CacheRoundTrip(t *testing.T) {
	contents := `state,year,electors
Vermont,2024,3
`
	path := writeFixture(t, "electors.csv", contents)

	c := cache.NewMemoryCache(time.Minute, time.Minute)
	loader := NewLoader(c, time.Minute)

	first, err := loader.Allocations(path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}

	// Second call with identical contents must serve the cached parse.
	key := cache.ContentKey("allocations", []byte(contents))
	if _, found := c.Get(key); !found {
		t.Fatal("expected parsed table in cache after first load")
	}

	second, err := loader.Allocations(path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(second) != len(first) || second[0] != first[0] {
		t.Errorf("cached load differs: %+v vs %+v", second, first)
	}
}

func TestLoader_CacheKeyTracksContents(t *testing.T) {
	a := cache.ContentKey("allocations", []byte("state,year,electors\n"))
	b := cache.ContentKey("allocations", []byte("state,year,electors\nOhio,2024,17\n"))
	if a == b {
		t.Error("different contents must produce different cache keys")
	}
	if !strings.HasPrefix(a, "votecast:v1:allocations:") {
		t.Errorf("unexpected key shape: %s", a)
	}
}

func TestReadTable_Empty(t *testing.T) {
	loader := NewLoader(nil, 0)
	path := writeFixture(t, "empty.csv", "")
	if _, err := loader.Allocations(path); err == nil {
		t.Fatal("expected error for empty table")
	}
}
