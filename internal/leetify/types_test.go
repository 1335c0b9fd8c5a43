package leetify

import (
	"encoding/json"
	"testing"
	"time"
)

const matchFixture = `{
	"data_source": "matchmaking_premier",
	"data_source_match_id": "CSGO-abcde-12345",
	"finished_at": "2025-06-03T19:42:10.000Z",
	"map_name": "de_mirage",
	"team_scores": [
		{"team_number": 2, "score": 13},
		{"team_number": 3, "score": 7}
	],
	"stats": [
		{
			"steam64_id": "76561198000000001",
			"initial_team_number": 2,
			"leetify_rating": 0.042,
			"dpr": 84.2,
			"he_foes_damage_avg": 6.1,
			"flashbang_leading_to_kill": 2,
			"trade_kills_succeed": 3
		},
		{
			"steam64_id": "76561198000000002",
			"initial_team_number": 3,
			"leetify_rating": -0.01
		}
	]
}`

func TestMatchDecode(t *testing.T) {
	var m Match
	if err := json.Unmarshal([]byte(matchFixture), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.DataSource != "matchmaking_premier" || m.DataSourceMatchID != "CSGO-abcde-12345" {
		t.Fatalf("match identity wrong: %+v", m)
	}
	ts, err := m.FinishedAtTime()
	if err != nil {
		t.Fatalf("finished_at parse: %v", err)
	}
	want := time.Date(2025, 6, 3, 19, 42, 10, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("finished_at = %v, want %v", ts, want)
	}

	row := m.RowFor("76561198000000001")
	if row == nil {
		t.Fatal("own row not found")
	}
	if row.LeetifyRating == nil || *row.LeetifyRating != 0.042 {
		t.Fatalf("leetify_rating = %v, want 0.042", row.LeetifyRating)
	}
	if m.RowFor("76561198999999999") != nil {
		t.Fatal("found a row for a stranger")
	}
}

func TestMatchWon(t *testing.T) {
	var m Match
	if err := json.Unmarshal([]byte(matchFixture), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}

	winner := m.RowFor("76561198000000001")
	loser := m.RowFor("76561198000000002")
	if !m.Won(winner) {
		t.Fatal("13-7 side not counted as a win")
	}
	if m.Won(loser) {
		t.Fatal("7-13 side counted as a win")
	}
	if m.Won(nil) {
		t.Fatal("nil row counted as a win")
	}

	// Malformed team scores never count as a win.
	m.TeamScores = m.TeamScores[:1]
	if m.Won(winner) {
		t.Fatal("single-sided scores counted as a win")
	}
}
