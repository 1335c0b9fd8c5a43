package market

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAlreadyQueued      = errors.New("already_queued")
	ErrRosterFull         = errors.New("roster_full")
	ErrNotOnRoster        = errors.New("not_on_roster")
	ErrInsufficientBudget = errors.New("insufficient_budget")
	ErrTransferCapReached = errors.New("transfer_cap_reached")
	ErrNoPriceAvailable   = errors.New("no_price_available")
	ErrTeamNotFound       = errors.New("team_not_found")
)

// TransferError wraps a ledger failure with enough context to diagnose it
// without leaving this subsystem.
type TransferError struct {
	Op       string
	GuildID  int64
	TeamID   string
	PlayerID string
	Week     time.Time
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s team=%s player=%s week=%s: %v",
		e.Op, e.TeamID, e.PlayerID, e.Week.Format("2006-01-02"), e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
