package market

import (
	"time"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

// CarryForward produces the opening state for a week from the most recent
// prior state, or from the initial budget when a team has no history. This is
// the only rule by which week states come into existence; nothing resets a
// balance except the explicit season reset.
func CarryForward(prev *store.TeamWeekState, guildID int64, teamID string, weekStart time.Time, initialBudget int64) store.TeamWeekState {
	budget := initialBudget
	if prev != nil {
		budget = prev.BudgetRemaining
	}
	return store.TeamWeekState{
		GuildID:         guildID,
		TeamID:          teamID,
		WeekStart:       weekStart,
		BudgetRemaining: budget,
		TransfersUsed:   0,
	}
}
