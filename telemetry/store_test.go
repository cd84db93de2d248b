package telemetry

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_DayStatsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	runID := NewRunID()

	if err := s.BeginRun(RunInfo{ID: runID, Seed: 42, ConfigYAML: "predator: {}"}); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	want := []DayStats{
		{Day: 1, Population: 6, Cows: 2, Goats: 2, Rabbits: 2, PredatorAlive: true, Reserve: 3000, Consumed: 30, Biomass: 812.5},
		{Day: 2, Population: 5, Cows: 1, Goats: 2, Rabbits: 2, DeathsPredation: 1, Kills: 1, Banked: 250.25, PredatorAlive: false},
	}
	for _, st := range want {
		if err := s.WriteDayStats(runID, st); err != nil {
			t.Fatalf("WriteDayStats: %v", err)
		}
	}
	// Another run's records stay separate
	if err := s.WriteDayStats(NewRunID(), DayStats{Day: 1, Population: 99}); err != nil {
		t.Fatalf("WriteDayStats other run: %v", err)
	}

	got, err := s.LoadDayStats(runID)
	if err != nil {
		t.Fatalf("LoadDayStats: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		w := want[i]
		w.RunID = runID
		if got[i] != w {
			t.Errorf("record %d = %+v, want %+v", i, got[i], w)
		}
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID || runs[0].Seed != 42 || runs[0].StartedAt == 0 {
		t.Errorf("unexpected runs %+v", runs)
	}

	h := HistoryFromStats(got, 10)
	if latest, _ := h.Latest(); latest.Day != 2 || latest.Counts != [3]int{1, 2, 2} || latest.PredatorAlive {
		t.Errorf("unexpected history sample %+v", latest)
	}
}

func TestStore_Bookmarks(t *testing.T) {
	s := openTestStore(t)
	runID := NewRunID()

	for _, b := range []Bookmark{
		{Type: BookmarkSpeciesExtinct, Day: 40, Description: "Cow died out (was 1)"},
		{Type: BookmarkPredatorDown, Day: 12, Description: "down"},
	} {
		if err := s.WriteBookmark(runID, b); err != nil {
			t.Fatalf("WriteBookmark: %v", err)
		}
	}

	got, err := s.LoadBookmarks(runID)
	if err != nil {
		t.Fatalf("LoadBookmarks: %v", err)
	}
	if len(got) != 2 || got[0].Type != BookmarkPredatorDown || got[1].Day != 40 || got[0].RunID != runID {
		t.Errorf("unexpected bookmarks %+v", got)
	}
}

func TestStore_NilIsNoop(t *testing.T) {
	var s *Store
	if err := s.WriteDayStats("x", DayStats{}); err != nil {
		t.Error(err)
	}
	if err := s.Close(); err != nil {
		t.Error(err)
	}
}
