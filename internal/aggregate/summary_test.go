package aggregate

import (
	"math"
	"testing"

	"github.com/electoralab/votecast/internal/model"
)

func TestSummarizeByWinner(t *testing.T) {
	rows := []model.WideVoteRow{
		{Year: 2008, Winner: model.WinnerD},
		{Year: 2012, Winner: model.WinnerD},
		{Year: 2016, Winner: model.WinnerR},
		{Year: 2020, Winner: model.WinnerD},
	}

	counts := SummarizeByWinner(rows)

	if counts[model.WinnerD] != 3 {
		t.Errorf("expected 3 D wins, got %d", counts[model.WinnerD])
	}
	if counts[model.WinnerR] != 1 {
		t.Errorf("expected 1 R win, got %d", counts[model.WinnerR])
	}
}

func TestSummarizeByWinner_Empty(t *testing.T) {
	counts := SummarizeByWinner(nil)
	if len(counts) != 0 {
		t.Errorf("expected empty counts, got %v", counts)
	}
}

func TestPartySeries(t *testing.T) {
	rows := []model.WideVoteRow{
		{Year: 2016, Democrat: 51.1, Republican: 48.9},
		{Year: 2020, Democrat: 52.3, Republican: 47.7},
	}

	dem, rep := PartySeries(rows)

	if len(dem.Years) != 2 || len(rep.Years) != 2 {
		t.Fatalf("expected 2 points per series, got %d/%d", len(dem.Years), len(rep.Years))
	}
	if dem.Pv2p[1] != 52.3 || rep.Pv2p[1] != 47.7 {
		t.Errorf("2020 shares wrong: D=%f R=%f", dem.Pv2p[1], rep.Pv2p[1])
	}
	if dem.Party != model.PartyDemocrat || rep.Party != model.PartyRepublican {
		t.Errorf("series party labels wrong: %s/%s", dem.Party, rep.Party)
	}
}

func TestPartySeries_CarriesGaps(t *testing.T) {
	rows := []model.WideVoteRow{
		{Year: 1912, Democrat: 64.4, Republican: math.NaN()},
	}

	_, rep := PartySeries(rows)
	if !math.IsNaN(rep.Pv2p[0]) {
		t.Errorf("expected NaN gap carried through, got %f", rep.Pv2p[0])
	}
}
