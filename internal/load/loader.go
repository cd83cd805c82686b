package load

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/electoralab/votecast/internal/cache"
	"github.com/electoralab/votecast/internal/model"
)

// Loader reads the source CSV tables into typed rows. Parsed tables are
// cached keyed by file contents, so unchanged inputs parse once per TTL.
type Loader struct {
	cache cache.Cache // nil disables caching
	ttl   time.Duration
}

// NewLoader creates a loader backed by the given cache (nil to disable).
func NewLoader(c cache.Cache, ttl time.Duration) *Loader {
	return &Loader{cache: c, ttl: ttl}
}

// PopularVote loads the long-format national popular-vote table.
// Expected columns: year, party, candidate, pv2p.
func (l *Loader) PopularVote(path string) ([]model.VoteRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read popular vote table: %w", err)
	}

	key := cache.ContentKey("popvote", data)
	var rows []model.VoteRecord
	if cache.GetTable(l.cache, key, &rows) {
		return rows, nil
	}

	rows, err = parsePopularVote(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	_ = cache.SetTable(l.cache, key, rows, l.ttl)
	return rows, nil
}

// StateVotes loads the state-level wide table with one-cycle lag columns.
// Expected columns: year, state, R_pv2p, D_pv2p, R_pv2p_lag1, D_pv2p_lag1.
// Region is derived from the state name, not read from the file.
func (l *Loader) StateVotes(path string) ([]model.StateVoteRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state vote table: %w", err)
	}

	key := cache.ContentKey("statevotes", data)
	var rows []model.StateVoteRow
	if cache.GetTable(l.cache, key, &rows) {
		return rows, nil
	}

	rows, err = parseStateVotes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	_ = cache.SetTable(l.cache, key, rows, l.ttl)
	return rows, nil
}

// Allocations loads the electoral-vote allocation table.
// Expected columns: state, year, electors.
func (l *Loader) Allocations(path string) ([]model.ElectoralAllocation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read allocation table: %w", err)
	}

	key := cache.ContentKey("allocations", data)
	var rows []model.ElectoralAllocation
	if cache.GetTable(l.cache, key, &rows) {
		return rows, nil
	}

	rows, err = parseAllocations(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	_ = cache.SetTable(l.cache, key, rows, l.ttl)
	return rows, nil
}

// header maps lower-cased column names to their index.
type header map[string]int

func readTable(data []byte) (header, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty table")
	}

	h := make(header, len(records[0]))
	for i, name := range records[0] {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h, records[1:], nil
}

func (h header) col(row []string, name string) (string, error) {
	idx, ok := h[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	if idx >= len(row) {
		return "", fmt.Errorf("short row, no value for %q", name)
	}
	return strings.TrimSpace(row[idx]), nil
}

func (h header) intCol(row []string, name string) (int, error) {
	s, err := h.col(row, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func (h header) floatCol(row []string, name string) (float64, error) {
	s, err := h.col(row, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func parsePopularVote(data []byte) ([]model.VoteRecord, error) {
	h, records, err := readTable(data)
	if err != nil {
		return nil, err
	}

	rows := make([]model.VoteRecord, 0, len(records))
	for i, rec := range records {
		year, err := h.intCol(rec, "year")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		partyStr, err := h.col(rec, "party")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		party, err := parseParty(partyStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		candidate, err := h.col(rec, "candidate")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		pv2p, err := h.floatCol(rec, "pv2p")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		rows = append(rows, model.VoteRecord{
			Year:      year,
			Party:     party,
			Candidate: candidate,
			Pv2p:      pv2p,
		})
	}
	return rows, nil
}

func parseStateVotes(data []byte) ([]model.StateVoteRow, error) {
	h, records, err := readTable(data)
	if err != nil {
		return nil, err
	}

	rows := make([]model.StateVoteRow, 0, len(records))
	for i, rec := range records {
		row := model.StateVoteRow{}
		if row.Year, err = h.intCol(rec, "year"); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if row.State, err = h.col(rec, "state"); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		row.Region = model.RegionKey(row.State)
		if row.RPv2p, err = h.floatCol(rec, "r_pv2p"); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if row.DPv2p, err = h.floatCol(rec, "d_pv2p"); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if row.RPv2pLag1, err = h.floatCol(rec, "r_pv2p_lag1"); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if row.DPv2pLag1, err = h.floatCol(rec, "d_pv2p_lag1"); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseAllocations(data []byte) ([]model.ElectoralAllocation, error) {
	h, records, err := readTable(data)
	if err != nil {
		return nil, err
	}

	rows := make([]model.ElectoralAllocation, 0, len(records))
	for i, rec := range records {
		row := model.ElectoralAllocation{}
		if row.State, err = h.col(rec, "state"); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if row.Year, err = h.intCol(rec, "year"); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if row.Electors, err = h.intCol(rec, "electors"); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseParty(s string) (model.Party, error) {
	switch strings.ToLower(s) {
	case "democrat":
		return model.PartyDemocrat, nil
	case "republican":
		return model.PartyRepublican, nil
	default:
		return "", fmt.Errorf("unknown party %q", s)
	}
}
