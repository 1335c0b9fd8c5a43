// Package pricing computes market prices for the player pool. A player's
// skill inputs collapse to one score, the pool is ranked, and the price curve
// maps percentile to price.
package pricing

import (
	"math"
	"sort"
)

// Price curve bounds. Gamma > 1 makes the top of the pool expensive.
const (
	PriceMin = 1000
	PriceMax = 11000
	Gamma    = 2.0
)

// Feature weights into the single skill score.
const (
	weightLeetify = 0.50
	weightFaceit  = 0.25
	weightPremier = 0.20
	weightRenown  = 0.05
)

// Normalization bounds per rating system. Values clip to these before
// scaling to 0..1; a missing rating contributes zero.
const (
	faceitMin, faceitMax   = 400, 3800
	premierMin, premierMax = 1000, 33000
	renownMin, renownMax   = 3000, 25000
	leetifyMin, leetifyMax = -5.0, 5.0
)

// Input is one player's skill inputs as stored on the players table.
type Input struct {
	PlayerID    string
	FaceitElo   *int
	PremierElo  *int
	RenownElo   *int
	LeetifyL100 *float64
}

// Update is the computed pricing row for one player.
type Update struct {
	PlayerID   string
	SkillScore float64
	Percentile float64
	Price      int64
}

// SkillScore collapses the rating inputs to a single 0..1 score.
func SkillScore(in Input) float64 {
	return weightLeetify*normFloat(in.LeetifyL100, leetifyMin, leetifyMax) +
		weightFaceit*normInt(in.FaceitElo, faceitMin, faceitMax) +
		weightPremier*normInt(in.PremierElo, premierMin, premierMax) +
		weightRenown*normInt(in.RenownElo, renownMin, renownMax)
}

// PriceFromPercentile maps a pool percentile through the gamma curve.
func PriceFromPercentile(p float64) int64 {
	p = clip(p, 0, 1)
	return int64(math.Round(PriceMin + (PriceMax-PriceMin)*math.Pow(p, Gamma)))
}

// ComputePrices ranks the whole pool and prices every player. Percentiles
// are i/(n-1) over the score-sorted pool; a pool of one sits at 0.5. Ties
// keep their input order within the sort, which is stable.
func ComputePrices(inputs []Input) []Update {
	n := len(inputs)
	if n == 0 {
		return nil
	}

	updates := make([]Update, n)
	for i, in := range inputs {
		updates[i] = Update{PlayerID: in.PlayerID, SkillScore: SkillScore(in)}
	}
	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].SkillScore < updates[j].SkillScore
	})

	for i := range updates {
		p := 0.5
		if n > 1 {
			p = float64(i) / float64(n-1)
		}
		updates[i].Percentile = p
		updates[i].Price = PriceFromPercentile(p)
	}
	return updates
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func normFloat(v *float64, lo, hi float64) float64 {
	if v == nil {
		return 0
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	return (clip(*v, lo, hi) - lo) / rng
}

func normInt(v *int, lo, hi float64) float64 {
	if v == nil {
		return 0
	}
	f := float64(*v)
	return normFloat(&f, lo, hi)
}
