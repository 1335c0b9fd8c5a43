package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/testutil"
)

func TestUpsertWeeklySnapshotLastWriterWins(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	u, err := st.EnsureUser(ctx, 555001, 9)
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	week := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	base := store.WeeklySnapshot{
		WeekStart: week, GuildID: 9, UserID: u.ID,
		RulesetID: 1, ComputedAt: time.Now().UTC(),
		SampleSize: 4, Wins: 2, FaceitGames: 4,
		BaseAvg: 40, AvgMult: 1.1, WREff: 0.5, WRMult: 1.0, WeeklyScore: 44,
	}
	if err := st.UpsertWeeklySnapshot(ctx, base); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	recompute := base
	recompute.SampleSize = 6
	recompute.Wins = 4
	recompute.WeeklyScore = 61.5
	if err := st.UpsertWeeklySnapshot(ctx, recompute); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := st.GetWeeklySnapshot(ctx, 9, u.ID, week)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if got.SampleSize != 6 || got.Wins != 4 || got.WeeklyScore != 61.5 {
		t.Fatalf("snapshot = %+v, want the recomputed values", got)
	}
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	t.Cleanup(cleanup)
	ctx := context.Background()

	a, err := st.EnsureUser(ctx, 555002, 9)
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	b, err := st.EnsureUser(ctx, 555002, 9)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if a.ID != b.ID {
		t.Fatalf("same discord user produced two rows: %s vs %s", a.ID, b.ID)
	}

	// The same discord id in another guild is a distinct user.
	c, err := st.EnsureUser(ctx, 555002, 10)
	if err != nil {
		t.Fatalf("other-guild ensure: %v", err)
	}
	if c.ID == a.ID {
		t.Fatal("users are not scoped per guild")
	}
}
