package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("stg", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("other", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("stg", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	for i, want := range []int{200, 100, 50} {
		if scores[i].Score != want {
			t.Errorf("scores[%d] = %d, expected %d", i, scores[i].Score, want)
		}
		if scores[i].GameID != "stg" {
			t.Errorf("scores[%d].GameID = %q", i, scores[i].GameID)
		}
	}

	other, err := store.TopScores("other", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Expected 1 score for other game, got %d", len(other))
	}
}

func TestStoreRunIDs(t *testing.T) {
	store := openTestStore(t)

	id1, err := store.SaveScore("stg", 10)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	id2, err := store.SaveScore("stg", 10)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	if id1 == id2 {
		t.Errorf("run IDs should be unique, both %q", id1)
	}
	if _, err := uuid.Parse(id1); err != nil {
		t.Errorf("run ID %q is not a UUID: %v", id1, err)
	}

	run, err := store.RunByID(id2)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run == nil || run.RunID != id2 || run.Score != 10 {
		t.Errorf("RunByID() = %+v", run)
	}

	missing, err := store.RunByID(uuid.NewString())
	if err != nil || missing != nil {
		t.Errorf("RunByID(unknown) = %v, %v; expected nil, nil", missing, err)
	}
}

func TestStoreSaveRun(t *testing.T) {
	store := openTestStore(t)

	fixed := uuid.NewString()
	saved, err := store.SaveRun(ScoreEntry{RunID: fixed, GameID: "stg", Score: 321, Difficulty: "hard"})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if saved.ID == 0 || saved.RunID != fixed {
		t.Errorf("SaveRun() = %+v", saved)
	}

	got, err := store.RunByID(fixed)
	if err != nil || got == nil {
		t.Fatalf("RunByID() = %v, %v", got, err)
	}
	if got.Difficulty != "hard" {
		t.Errorf("Difficulty = %q, expected hard", got.Difficulty)
	}

	if _, err := store.SaveRun(ScoreEntry{RunID: fixed, GameID: "stg", Score: 1}); err == nil {
		t.Error("duplicate run ID should fail")
	}
	if _, err := store.SaveRun(ScoreEntry{Score: 1}); err == nil {
		t.Error("empty game ID should fail")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	all, err := store.TopScores("test", 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("non-positive limit should default to 10, got %d rows", len(all))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("stg")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("stg", 100)
	store.SaveScore("stg", 300)
	store.SaveScore("stg", 200)

	high, err = store.HighScore("stg")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("stg", 100)
	store.SaveScore("stg", 200)
	store.SaveScore("other", 300)

	if err := store.ClearScores("stg"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("stg", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("other", 10); len(scores) != 1 {
		t.Errorf("other game should not be affected by clearing stg")
	}
}

func TestStoreAllScores(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		store.SaveScore("test", i*10)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("stg")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveScore("stg", 100)
	store.SaveScore("stg", 300)
	store.SaveScore("other", 7)

	stats, err := store.GetGameStats("stg")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 || stats.AvgScore != 200 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["other"].HighScore != 7 {
		t.Errorf("GetAllGamesStats() = %v", all)
	}
}

func TestStoreDifficultyFilter(t *testing.T) {
	store := openTestStore(t)

	runs := []ScoreEntry{
		{GameID: "stg", Score: 120, Difficulty: "easy"},
		{GameID: "stg", Score: 300, Difficulty: "hard"},
		{GameID: "stg", Score: 80, Difficulty: "easy"},
		{GameID: "stg", Score: 500},
		{GameID: "other", Score: 900, Difficulty: "easy"},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	tests := []struct {
		difficulty string
		want       []int
	}{
		{"", []int{500, 300, 120, 80}},
		{"easy", []int{120, 80}},
		{"hard", []int{300}},
		{"fixed", nil},
	}
	for _, tt := range tests {
		t.Run("label="+tt.difficulty, func(t *testing.T) {
			scores, err := store.TopScoresByDifficulty("stg", tt.difficulty, 10)
			if err != nil {
				t.Fatalf("TopScoresByDifficulty() failed: %v", err)
			}
			if len(scores) != len(tt.want) {
				t.Fatalf("got %d scores, want %d", len(scores), len(tt.want))
			}
			for i, s := range scores {
				if s.Score != tt.want[i] {
					t.Errorf("scores[%d] = %d, want %d", i, s.Score, tt.want[i])
				}
			}

			stats, err := store.GetDifficultyStats("stg", tt.difficulty)
			if err != nil {
				t.Fatalf("GetDifficultyStats() failed: %v", err)
			}
			if stats.GamesCount != len(tt.want) {
				t.Errorf("GamesCount = %d, want %d", stats.GamesCount, len(tt.want))
			}
			if len(tt.want) > 0 && stats.HighScore != tt.want[0] {
				t.Errorf("HighScore = %d, want %d", stats.HighScore, tt.want[0])
			}
		})
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
