package market

import "time"

type SellKind string

const (
	// SellCancelQueuedBuy deleted a buy that had not taken effect yet.
	SellCancelQueuedBuy SellKind = "cancel_queued_buy"
	// SellScheduledRemoval closed an active interval at next week's start.
	SellScheduledRemoval SellKind = "scheduled_removal"
)

type TransferResult struct {
	TeamID          string    `json:"team_id"`
	PlayerID        string    `json:"player_id"`
	EffectiveWeek   time.Time `json:"effective_week"`
	Price           int64     `json:"price"`
	BudgetRemaining int64     `json:"budget_remaining"`
	TransfersUsed   int       `json:"transfers_used"`
	TransferCap     int       `json:"transfer_cap"`
	SellKind        SellKind  `json:"sell_kind,omitempty"`
}

type RosterEntry struct {
	PlayerID string  `json:"player_id"`
	Handle   string  `json:"handle"`
	Role     *string `json:"role,omitempty"`
	Price    *int64  `json:"price,omitempty"`
}

type RosterView struct {
	TeamID          string        `json:"team_id"`
	WeekStart       time.Time     `json:"week_start"`
	Players         []RosterEntry `json:"players"`
	BudgetRemaining int64         `json:"budget_remaining"`
	TransfersUsed   int           `json:"transfers_used"`
	TransferCap     int           `json:"transfer_cap"`
}
