package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/gameweek"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/store"
	"github.com/AlfiePerkins1/mvp-fantasy-cs/internal/testutil"
)

const testGuildID = int64(300)

var testNow = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

func seedTeam(t *testing.T, st *store.Store, discordID int64, name string, playerScores []float64, weekStart time.Time) string {
	t.Helper()
	ctx := context.Background()
	owner, err := st.EnsureUser(ctx, discordID, testGuildID)
	if err != nil {
		t.Fatalf("ensure owner: %v", err)
	}
	teamID, err := st.CreateTeam(ctx, testGuildID, owner.ID, name)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	for i, score := range playerScores {
		u, err := st.EnsureUser(ctx, discordID*10+int64(i)+1, testGuildID)
		if err != nil {
			t.Fatalf("ensure player user: %v", err)
		}
		p, err := st.EnsurePlayerForUser(ctx, u)
		if err != nil {
			t.Fatalf("ensure player: %v", err)
		}
		if _, err := st.InsertAssignment(ctx, st.DB, teamID, p.ID, nil, weekStart); err != nil {
			t.Fatalf("assign player: %v", err)
		}
		if score > 0 {
			err := st.UpsertWeeklySnapshot(ctx, store.WeeklySnapshot{
				WeekStart: weekStart, GuildID: testGuildID, UserID: u.ID,
				RulesetID: 1, ComputedAt: testNow,
				SampleSize: 5, Wins: 3, FaceitGames: 5,
				WeeklyScore: score,
			})
			if err != nil {
				t.Fatalf("snapshot: %v", err)
			}
		}
	}
	return teamID
}

func TestWeeklyBoard(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	t.Cleanup(cleanup)
	weekStart := gameweek.NewClock().ThisWeekStart(testNow)

	strong := seedTeam(t, st, 800001, "strong", []float64{60, 40}, weekStart)
	weak := seedTeam(t, st, 800002, "weak", []float64{30}, weekStart)
	empty := seedTeam(t, st, 800003, "empty", nil, weekStart)

	svc := NewService(st, gameweek.NewClock())
	svc.now = func() time.Time { return testNow }

	board, err := svc.Weekly(context.Background(), testGuildID, nil, 25, 0)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(board.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(board.Entries))
	}
	if !board.WeekStart.Equal(weekStart) {
		t.Fatalf("week = %v, want %v", board.WeekStart, weekStart)
	}

	if e := board.Entries[0]; e.TeamID != strong || e.Points != 100 || e.Rank != 1 {
		t.Fatalf("first entry = %+v, want strong with 100 points", e)
	}
	if e := board.Entries[1]; e.TeamID != weak || e.Points != 30 || e.Rank != 2 {
		t.Fatalf("second entry = %+v, want weak with 30 points", e)
	}
	// A team with no scored players still appears, at zero.
	if e := board.Entries[2]; e.TeamID != empty || e.Points != 0 || e.Rank != 3 {
		t.Fatalf("third entry = %+v, want empty with 0 points", e)
	}

	if got := len(board.Entries[0].Players); got != 2 {
		t.Fatalf("strong breakdown has %d players, want 2", got)
	}
	if board.Entries[0].Players[0].Points != 60 {
		t.Fatalf("breakdown not score-ordered: %+v", board.Entries[0].Players)
	}
	if board.Entries[2].Players == nil {
		t.Fatal("empty team breakdown is nil, want empty slice")
	}
}

func TestWeeklyRejectsNonCanonicalWeek(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	t.Cleanup(cleanup)

	svc := NewService(st, gameweek.NewClock())
	offKey := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC) // a Tuesday
	_, err := svc.Weekly(context.Background(), testGuildID, &offKey, 25, 0)
	if !errors.Is(err, ErrInvalidWeek) {
		t.Fatalf("err = %v, want ErrInvalidWeek", err)
	}
}

func TestWeeklyPagination(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	t.Cleanup(cleanup)
	weekStart := gameweek.NewClock().ThisWeekStart(testNow)

	seedTeam(t, st, 800011, "alpha", []float64{50}, weekStart)
	seedTeam(t, st, 800012, "bravo", []float64{40}, weekStart)
	seedTeam(t, st, 800013, "charlie", []float64{30}, weekStart)

	svc := NewService(st, gameweek.NewClock())
	svc.now = func() time.Time { return testNow }

	board, err := svc.Weekly(context.Background(), testGuildID, nil, 2, 1)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(board.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(board.Entries))
	}
	if board.Entries[0].TeamName != "bravo" || board.Entries[0].Rank != 2 {
		t.Fatalf("paged first entry = %+v, want bravo at rank 2", board.Entries[0])
	}
}
