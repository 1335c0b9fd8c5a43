package scoring

import (
	"math"
	"testing"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/stats"
)

func fptr(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScoreZeroSample(t *testing.T) {
	bd := Score(stats.WeekRecord{}, DefaultRuleset())
	if bd.WeeklyScore != 0 || bd.BaseAvg != 0 {
		t.Fatalf("zero-sample score = %+v, want all-zero points", bd)
	}
	if bd.AvgMult != 1.0 || bd.WREff != 0.5 || bd.WRMult != 1.0 {
		t.Fatalf("zero-sample multipliers = %+v, want neutral", bd)
	}
}

func TestScoreWinRateShrinkage(t *testing.T) {
	// 7 wins in 10 games: raw 0.70 shrinks to (7+5)/(10+10)=0.60,
	// so the multiplier is 1 + 0.10*0.60 = 1.06.
	rec := stats.WeekRecord{
		SampleSize:  10,
		Wins:        7,
		FaceitGames: 10,
		AvgRating:   fptr(5.0),
	}
	bd := Score(rec, DefaultRuleset())

	if !almostEqual(bd.WREff, 0.60) {
		t.Fatalf("WREff = %v, want 0.60", bd.WREff)
	}
	if !almostEqual(bd.WRMult, 1.06) {
		t.Fatalf("WRMult = %v, want 1.06", bd.WRMult)
	}
	if !almostEqual(bd.AvgMult, 1.10) {
		t.Fatalf("AvgMult = %v, want faceit 1.10", bd.AvgMult)
	}
	if !almostEqual(bd.BaseAvg, 50.0) {
		t.Fatalf("BaseAvg = %v, want 50", bd.BaseAvg)
	}
	if !almostEqual(bd.WeeklyScore, 50.0*1.10*1.06) {
		t.Fatalf("WeeklyScore = %v, want %v", bd.WeeklyScore, 50.0*1.10*1.06)
	}
}

func TestScoreMultiplierBounds(t *testing.T) {
	rs := DefaultRuleset()
	for games := 1; games <= 60; games++ {
		for wins := 0; wins <= games; wins++ {
			rec := stats.WeekRecord{SampleSize: games, Wins: wins, MMGames: games}
			bd := Score(rec, rs)
			if bd.WRMult < 1.0 || bd.WRMult > rs.WinCap {
				t.Fatalf("WRMult out of [1, cap] for games=%d wins=%d: %v", games, wins, bd.WRMult)
			}
			if bd.WREff <= 0 || bd.WREff >= 1 {
				t.Fatalf("WREff out of (0,1) for games=%d wins=%d: %v", games, wins, bd.WREff)
			}
		}
	}
}

func TestScoreWinCapReached(t *testing.T) {
	// A perfect long run must hit the cap, not exceed it.
	rec := stats.WeekRecord{SampleSize: 200, Wins: 200, PremierGames: 200}
	bd := Score(rec, DefaultRuleset())
	if !almostEqual(bd.WRMult, 1.15) {
		t.Fatalf("WRMult = %v, want cap 1.15", bd.WRMult)
	}
}

func TestScoreMixedSourceMultiplier(t *testing.T) {
	// 2 premier + 1 mm + 1 unknown-source game:
	// (2*1.20 + 1*0.80 + 1*1.00) / 4 = 1.05.
	rec := stats.WeekRecord{
		SampleSize:   4,
		PremierGames: 2,
		MMGames:      1,
		OtherGames:   1,
		AvgRating:    fptr(1.0),
	}
	bd := Score(rec, DefaultRuleset())
	if !almostEqual(bd.AvgMult, 1.05) {
		t.Fatalf("AvgMult = %v, want 1.05", bd.AvgMult)
	}
}

func TestScorePerGameNormalization(t *testing.T) {
	rec := stats.WeekRecord{
		SampleSize: 4,
		MMGames:    4,
		TradeKills: 8,
		Entries:    2,
		Flashes:    4,
		AvgADR:     fptr(80),
		AvgUtil:    fptr(10),
	}
	bd := Score(rec, DefaultRuleset())

	if !almostEqual(bd.PtsTrades, 2.0*2.0) {
		t.Fatalf("PtsTrades = %v, want 4", bd.PtsTrades)
	}
	if !almostEqual(bd.PtsEntries, 3.0*0.5) {
		t.Fatalf("PtsEntries = %v, want 1.5", bd.PtsEntries)
	}
	if !almostEqual(bd.PtsFlashes, 1.0) {
		t.Fatalf("PtsFlashes = %v, want 1", bd.PtsFlashes)
	}
	if !almostEqual(bd.PtsADR, 8.0) {
		t.Fatalf("PtsADR = %v, want 8", bd.PtsADR)
	}
	// Util is already a per-game average, never divided again.
	if !almostEqual(bd.PtsUtil, 0.5) {
		t.Fatalf("PtsUtil = %v, want 0.5", bd.PtsUtil)
	}
}

func TestScoreDeterministic(t *testing.T) {
	rec := stats.WeekRecord{
		SampleSize: 7, Wins: 4, FaceitGames: 3, PremierGames: 4,
		AvgRating: fptr(3.2), AvgADR: fptr(74.5), AvgUtil: fptr(6.1),
		TradeKills: 9, Flashes: 5, Entries: 2,
	}
	first := Score(rec, DefaultRuleset())
	for i := 0; i < 10; i++ {
		if got := Score(rec, DefaultRuleset()); got != first {
			t.Fatalf("score not deterministic: %+v vs %+v", got, first)
		}
	}
}
