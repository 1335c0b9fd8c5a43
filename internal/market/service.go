package market

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/gameweek"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
)

type Config struct {
	InitialBudget    int64
	TransfersPerWeek int
	RosterCapacity   int
}

// Service owns the roster and budget ledgers. Every mutation runs inside one
// transaction covering both ledgers; a failure in either half rolls back both.
type Service struct {
	store *store.Store
	clock *gameweek.Clock
	cfg   Config

	now func() time.Time
}

func NewService(st *store.Store, clock *gameweek.Clock, cfg Config) *Service {
	return &Service{store: st, clock: clock, cfg: cfg, now: time.Now}
}

// QueueBuy schedules a player onto the team starting next week. The price is
// charged against next week's budget; the transfer counts against this week
// once the team is past its build phase.
func (s *Service) QueueBuy(ctx context.Context, guildID int64, teamID, playerID string, role *string) (*TransferResult, error) {
	now := s.now()
	thisWeek := s.clock.ThisWeekStart(now)
	nextWeek := s.clock.NextWeekStart(now)

	fail := func(err error) (*TransferResult, error) {
		return nil, &TransferError{Op: "buy", GuildID: guildID, TeamID: teamID, PlayerID: playerID, Week: nextWeek, Err: err}
	}

	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(ErrTeamNotFound)
		}
		return nil, err
	}
	// Week states key on (guild, team, week); a forged guild id would open a
	// second ledger for the same team, so the team's own guild is the only
	// one accepted.
	if team.GuildID != guildID {
		return fail(ErrTeamNotFound)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock order: this week before next week, always, so concurrent
	// mutations for one team serialize instead of deadlocking.
	stateThis, err := s.ensureWeekStateLocked(ctx, tx, guildID, teamID, thisWeek)
	if err != nil {
		return nil, err
	}
	stateNext, err := s.ensureWeekStateLocked(ctx, tx, guildID, teamID, nextWeek)
	if err != nil {
		return nil, err
	}

	price, err := s.store.GetPlayerPrice(ctx, tx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(ErrNoPriceAvailable)
		}
		return nil, err
	}
	if price == nil {
		return fail(ErrNoPriceAvailable)
	}

	covered, err := s.store.PlayerCoveredAt(ctx, tx, teamID, playerID, nextWeek)
	if err != nil {
		return nil, err
	}
	if covered {
		return fail(ErrAlreadyQueued)
	}

	nextCount, err := s.store.CountRosterForWeek(ctx, tx, teamID, nextWeek)
	if err != nil {
		return nil, err
	}
	if nextCount >= s.cfg.RosterCapacity {
		return fail(ErrRosterFull)
	}

	if stateNext.BudgetRemaining < *price {
		return fail(ErrInsufficientBudget)
	}

	thisCount, err := s.store.CountRosterForWeek(ctx, tx, teamID, thisWeek)
	if err != nil {
		return nil, err
	}
	// A buy consumes a transfer only past the build phase and only for a
	// player not already covered this week, so rebuying a just-sold player
	// is cap-exempt. Cap-check before touching anything.
	consumesTransfer := false
	if thisCount > 0 {
		onThisWeek, err := s.store.PlayerCoveredAt(ctx, tx, teamID, playerID, thisWeek)
		if err != nil {
			return nil, err
		}
		consumesTransfer = !onThisWeek
	}
	if consumesTransfer && s.cfg.TransfersPerWeek > 0 && stateThis.TransfersUsed >= s.cfg.TransfersPerWeek {
		return fail(ErrTransferCapReached)
	}

	if _, err := s.store.InsertAssignment(ctx, tx, teamID, playerID, role, nextWeek); err != nil {
		return nil, err
	}

	stateNext.BudgetRemaining -= *price
	if err := s.store.UpdateWeekState(ctx, tx, *stateNext); err != nil {
		return nil, err
	}

	if consumesTransfer {
		stateThis.TransfersUsed++
		if err := s.store.UpdateWeekState(ctx, tx, *stateThis); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info().Str("team_id", teamID).Str("player_id", playerID).
		Int64("price", *price).Time("effective_week", nextWeek).Msg("buy queued")
	return &TransferResult{
		TeamID:          teamID,
		PlayerID:        playerID,
		EffectiveWeek:   nextWeek,
		Price:           *price,
		BudgetRemaining: stateNext.BudgetRemaining,
		TransfersUsed:   stateThis.TransfersUsed,
		TransferCap:     s.cfg.TransfersPerWeek,
	}, nil
}

// QueueSell removes a player effective next week. Three cases in order: a
// queued buy is deleted outright, an active interval is closed at next week,
// otherwise the player is not on the roster. Refunds go to next week's
// budget, mirroring where the buy charged.
func (s *Service) QueueSell(ctx context.Context, guildID int64, teamID, playerID string) (*TransferResult, error) {
	now := s.now()
	thisWeek := s.clock.ThisWeekStart(now)
	nextWeek := s.clock.NextWeekStart(now)

	fail := func(err error) (*TransferResult, error) {
		return nil, &TransferError{Op: "sell", GuildID: guildID, TeamID: teamID, PlayerID: playerID, Week: nextWeek, Err: err}
	}

	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(ErrTeamNotFound)
		}
		return nil, err
	}
	if team.GuildID != guildID {
		return fail(ErrTeamNotFound)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stateThis, err := s.ensureWeekStateLocked(ctx, tx, guildID, teamID, thisWeek)
	if err != nil {
		return nil, err
	}
	stateNext, err := s.ensureWeekStateLocked(ctx, tx, guildID, teamID, nextWeek)
	if err != nil {
		return nil, err
	}

	// Refund at the player's current price; a missing price refunds nothing
	// rather than blocking the sell.
	var refund int64
	if price, err := s.store.GetPlayerPrice(ctx, tx, playerID); err == nil && price != nil {
		refund = *price
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	var kind SellKind
	queued, err := s.store.FindQueuedBuy(ctx, tx, teamID, playerID, nextWeek)
	switch {
	case err == nil:
		kind = SellCancelQueuedBuy
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, err
	}

	var active *store.RosterAssignment
	if kind == "" {
		active, err = s.store.FindActiveSpanning(ctx, tx, teamID, playerID, nextWeek)
		switch {
		case err == nil:
			kind = SellScheduledRemoval
		case errors.Is(err, store.ErrNotFound):
			return fail(ErrNotOnRoster)
		default:
			return nil, err
		}
	}

	// Closing an active interval consumes a transfer; cancelling a queued buy
	// never does. Cap-check before touching anything.
	countsTransfer := kind == SellScheduledRemoval
	if countsTransfer && s.cfg.TransfersPerWeek > 0 && stateThis.TransfersUsed >= s.cfg.TransfersPerWeek {
		return fail(ErrTransferCapReached)
	}

	switch kind {
	case SellCancelQueuedBuy:
		if err := s.store.DeleteAssignment(ctx, tx, queued.ID); err != nil {
			return nil, err
		}
	case SellScheduledRemoval:
		if err := s.store.CloseAssignment(ctx, tx, active.ID, nextWeek); err != nil {
			return nil, err
		}
	}

	stateNext.BudgetRemaining += refund
	if err := s.store.UpdateWeekState(ctx, tx, *stateNext); err != nil {
		return nil, err
	}
	if countsTransfer {
		stateThis.TransfersUsed++
		if err := s.store.UpdateWeekState(ctx, tx, *stateThis); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info().Str("team_id", teamID).Str("player_id", playerID).
		Str("kind", string(kind)).Int64("refund", refund).Msg("sell queued")
	return &TransferResult{
		TeamID:          teamID,
		PlayerID:        playerID,
		EffectiveWeek:   nextWeek,
		Price:           refund,
		BudgetRemaining: stateNext.BudgetRemaining,
		TransfersUsed:   stateThis.TransfersUsed,
		TransferCap:     s.cfg.TransfersPerWeek,
		SellKind:        kind,
	}, nil
}

// Roster returns the team's roster and budget state for this or next week.
// Reads never materialize week-state rows; an absent row is presented as the
// carried-forward opening state.
func (s *Service) Roster(ctx context.Context, guildID int64, teamID string, nextWeekView bool) (*RosterView, error) {
	now := s.now()
	week := s.clock.ThisWeekStart(now)
	if nextWeekView {
		week = s.clock.NextWeekStart(now)
	}

	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team.GuildID != guildID {
		return nil, ErrTeamNotFound
	}

	members, err := s.store.RosterForWeek(ctx, s.store.DB, teamID, week)
	if err != nil {
		return nil, err
	}

	state, err := s.store.GetWeekState(ctx, s.store.DB, guildID, teamID, week)
	if errors.Is(err, store.ErrNotFound) {
		prev, perr := s.latestBefore(ctx, guildID, teamID, week)
		if perr != nil {
			return nil, perr
		}
		derived := CarryForward(prev, guildID, teamID, week, s.cfg.InitialBudget)
		state = &derived
	} else if err != nil {
		return nil, err
	}

	players := make([]RosterEntry, 0, len(members))
	for _, m := range members {
		players = append(players, RosterEntry{PlayerID: m.PlayerID, Handle: m.Handle, Role: m.Role, Price: m.Price})
	}
	return &RosterView{
		TeamID:          teamID,
		WeekStart:       week,
		Players:         players,
		BudgetRemaining: state.BudgetRemaining,
		TransfersUsed:   state.TransfersUsed,
		TransferCap:     s.cfg.TransfersPerWeek,
	}, nil
}

// SeasonReset wipes a guild's budget/transfer history. Roster intervals and
// snapshots are left intact; the next ledger touch re-seeds budgets from the
// initial constant.
func (s *Service) SeasonReset(ctx context.Context, guildID int64) (int64, error) {
	n, err := s.store.DeleteWeekStates(ctx, guildID)
	if err != nil {
		return 0, err
	}
	log.Warn().Int64("guild_id", guildID).Int64("rows", n).Msg("season reset: week states wiped")
	return n, nil
}

// ensureWeekStateLocked implements lazy carry-forward creation under a row
// lock. Insert uses ON CONFLICT DO NOTHING, so when two transactions race to
// create the same week the loser just locks the winner's row.
func (s *Service) ensureWeekStateLocked(ctx context.Context, tx *sql.Tx, guildID int64, teamID string, weekStart time.Time) (*store.TeamWeekState, error) {
	st, err := s.store.GetWeekStateForUpdate(ctx, tx, guildID, teamID, weekStart)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	prev, err := s.store.LatestWeekStateBefore(ctx, tx, guildID, teamID, weekStart)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if errors.Is(err, store.ErrNotFound) {
		prev = nil
	}
	fresh := CarryForward(prev, guildID, teamID, weekStart, s.cfg.InitialBudget)
	if err := s.store.InsertWeekState(ctx, tx, fresh); err != nil {
		return nil, err
	}
	st, err = s.store.GetWeekStateForUpdate(ctx, tx, guildID, teamID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("week state vanished after insert: %w", err)
	}
	return st, nil
}

func (s *Service) latestBefore(ctx context.Context, guildID int64, teamID string, weekStart time.Time) (*store.TeamWeekState, error) {
	prev, err := s.store.LatestWeekStateBefore(ctx, s.store.DB, guildID, teamID, weekStart)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return prev, nil
}
