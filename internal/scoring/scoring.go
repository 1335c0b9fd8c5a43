// Package scoring converts an aggregated week record into fantasy points.
package scoring

import (
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/stats"
)

// Ruleset carries every tunable of the scoring function. Persisted snapshots
// record the ruleset ID so historic rows stay interpretable after a retune.
type Ruleset struct {
	ID int

	WeightRating  float64
	WeightADR     float64
	WeightTrades  float64
	WeightEntries float64
	WeightFlashes float64
	WeightUtil    float64

	MultPremier float64
	MultFaceit  float64
	MultRenown  float64
	MultMM      float64
	MultOther   float64

	// Win-rate shrinkage: alpha pseudo-games at 50% pull small samples
	// toward neutral, slope scales the bonus, cap bounds it.
	ShrinkAlpha float64
	WinSlope    float64
	WinCap      float64
}

// DefaultRuleset is ruleset 1, the live tuning.
func DefaultRuleset() Ruleset {
	return Ruleset{
		ID:            1,
		WeightRating:  10.0,
		WeightADR:     0.1,
		WeightTrades:  2.0,
		WeightEntries: 3.0,
		WeightFlashes: 1.0,
		WeightUtil:    0.05,
		MultPremier:   1.20,
		MultFaceit:    1.10,
		MultRenown:    1.00,
		MultMM:        0.80,
		MultOther:     1.00,
		ShrinkAlpha:   10.0,
		WinSlope:      0.60,
		WinCap:        1.15,
	}
}

// Breakdown is the full decomposition of a weekly score. All terms are
// persisted so a snapshot can be audited without recomputing.
type Breakdown struct {
	SampleSize int
	Wins       int

	PtsRating  float64
	PtsADR     float64
	PtsTrades  float64
	PtsEntries float64
	PtsFlashes float64
	PtsUtil    float64

	BaseAvg float64
	AvgMult float64
	WREff   float64
	WRMult  float64

	WeeklyScore float64
}

// Score computes the weekly breakdown for one aggregated record. A week with
// no games scores exactly zero with neutral multipliers; partial metrics
// (a nil average) contribute zero rather than poisoning the total.
func Score(rec stats.WeekRecord, rs Ruleset) Breakdown {
	byCategory := rec.GamesByCategory()
	gamesTotal := rec.SampleSize
	if byCategory > gamesTotal {
		gamesTotal = byCategory
	}
	if gamesTotal <= 0 {
		return Breakdown{AvgMult: 1.0, WREff: 0.5, WRMult: 1.0}
	}

	bd := Breakdown{
		SampleSize: gamesTotal,
		Wins:       rec.Wins,
	}

	bd.PtsRating = rs.WeightRating * deref(rec.AvgRating)
	bd.PtsADR = rs.WeightADR * deref(rec.AvgADR)
	bd.PtsTrades = rs.WeightTrades * (float64(rec.TradeKills) / float64(gamesTotal))
	bd.PtsEntries = rs.WeightEntries * (float64(rec.Entries) / float64(gamesTotal))
	bd.PtsFlashes = rs.WeightFlashes * (float64(rec.Flashes) / float64(gamesTotal))
	bd.PtsUtil = rs.WeightUtil * deref(rec.AvgUtil)
	bd.BaseAvg = bd.PtsRating + bd.PtsADR + bd.PtsTrades + bd.PtsEntries + bd.PtsFlashes + bd.PtsUtil

	denom := byCategory
	if denom < 1 {
		denom = 1
	}
	bd.AvgMult = (rs.MultPremier*float64(rec.PremierGames) +
		rs.MultFaceit*float64(rec.FaceitGames) +
		rs.MultRenown*float64(rec.RenownGames) +
		rs.MultMM*float64(rec.MMGames) +
		rs.MultOther*float64(rec.OtherGames)) / float64(denom)

	bd.WREff = (float64(rec.Wins) + rs.ShrinkAlpha*0.5) / (float64(gamesTotal) + rs.ShrinkAlpha)
	bonus := bd.WREff - 0.5
	if bonus < 0 {
		bonus = 0
	}
	bd.WRMult = 1.0 + bonus*rs.WinSlope
	if bd.WRMult > rs.WinCap {
		bd.WRMult = rs.WinCap
	}

	bd.WeeklyScore = bd.BaseAvg * bd.AvgMult * bd.WRMult
	return bd
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
