// Package stats turns raw per-game rows into one aggregated record per player
// per week. Aggregation is pure; the caller selects the week's rows.
package stats

import (
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

// Source categories. Every provider data_source maps to exactly one.
const (
	CategoryPremier = "premier"
	CategoryFaceit  = "faceit"
	CategoryRenown  = "renown"
	CategoryMM      = "mm"
	CategoryOther   = "other"
)

var sourceCategories = map[string]string{
	"faceit":                  CategoryFaceit,
	"renown":                  CategoryRenown,
	"premier":                 CategoryPremier,
	"matchmaking_premier":     CategoryPremier,
	"matchmaking":             CategoryMM,
	"matchmaking_competitive": CategoryMM,
}

// SourceCategory maps a provider data_source to its scoring category.
// Unknown sources, wingman included, land in the "other" bucket.
func SourceCategory(dataSource string) string {
	if cat, ok := sourceCategories[dataSource]; ok {
		return cat
	}
	return CategoryOther
}

// WeekRecord is one player's aggregated week. Averages are nil when no game
// carried the metric; ratings are scaled to 0..100.
type WeekRecord struct {
	SampleSize int
	Wins       int

	PremierGames int
	FaceitGames  int
	RenownGames  int
	MMGames      int
	OtherGames   int

	AvgRating *float64
	AvgADR    *float64
	AvgUtil   *float64

	TradeKills int
	Flashes    int
	Entries    int
}

// GamesByCategory returns the total of the per-source counters.
func (r WeekRecord) GamesByCategory() int {
	return r.PremierGames + r.FaceitGames + r.RenownGames + r.MMGames + r.OtherGames
}

// AggregateWeek folds a player's game rows into a WeekRecord. Nullable
// metrics are skipped per-row, so one source missing a stat does not drag the
// averages down.
func AggregateWeek(games []store.PlayerGame) WeekRecord {
	var rec WeekRecord
	rec.SampleSize = len(games)

	var ratingSum, adrSum, utilSum float64
	var ratingN, adrN, utilN int

	for _, g := range games {
		switch SourceCategory(g.DataSource) {
		case CategoryPremier:
			rec.PremierGames++
		case CategoryFaceit:
			rec.FaceitGames++
		case CategoryRenown:
			rec.RenownGames++
		case CategoryMM:
			rec.MMGames++
		default:
			rec.OtherGames++
		}

		if g.Won {
			rec.Wins++
		}
		if g.Rating != nil {
			ratingSum += *g.Rating * 100
			ratingN++
		}
		if g.DPR != nil {
			adrSum += *g.DPR
			adrN++
		}
		if g.UtilDmg != nil {
			utilSum += *g.UtilDmg
			utilN++
		}
		if g.TradeKills != nil {
			rec.TradeKills += *g.TradeKills
		}
		if g.Flashes != nil {
			rec.Flashes += *g.Flashes
		}
		if g.Entries != nil {
			rec.Entries += *g.Entries
		}
	}

	if ratingN > 0 {
		avg := ratingSum / float64(ratingN)
		rec.AvgRating = &avg
	}
	if adrN > 0 {
		avg := adrSum / float64(adrN)
		rec.AvgADR = &avg
	}
	if utilN > 0 {
		avg := utilSum / float64(utilN)
		rec.AvgUtil = &avg
	}
	return rec
}
