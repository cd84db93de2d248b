package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_PredatorDown(t *testing.T) {
	bd := NewBookmarkDetector(10, 0.5, 5)

	bd.Check(DayStats{Day: 1, Population: 6, PredatorAlive: true})
	bookmarks := bd.Check(DayStats{Day: 2, Population: 6, PredatorAlive: false})
	if !hasBookmark(bookmarks, BookmarkPredatorDown) {
		t.Error("expected predator_down bookmark")
	}

	// Staying down does not fire again
	bookmarks = bd.Check(DayStats{Day: 3, Population: 6, PredatorAlive: false})
	if hasBookmark(bookmarks, BookmarkPredatorDown) {
		t.Error("predator_down should fire once")
	}
}

func TestBookmarkDetector_SpeciesExtinct(t *testing.T) {
	bd := NewBookmarkDetector(10, 0.5, 5)

	bd.Check(DayStats{Day: 1, Population: 4, Cows: 2, Goats: 2, PredatorAlive: true})
	bookmarks := bd.Check(DayStats{Day: 2, Population: 2, Goats: 2, PredatorAlive: true})

	n := 0
	for _, bm := range bookmarks {
		if bm.Type == BookmarkSpeciesExtinct {
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected one species_extinct bookmark, got %d", n)
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := NewBookmarkDetector(10, 0.3, 10)

	// Build up prey population
	for i := 0; i < 5; i++ {
		bd.Check(DayStats{Day: i + 1, Population: 100, PredatorAlive: true})
	}

	bookmarks := bd.Check(DayStats{Day: 6, Population: 50, PredatorAlive: true})
	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}

	// The crash resets the window, so the low level alone does not refire
	bookmarks = bd.Check(DayStats{Day: 7, Population: 49, PredatorAlive: true})
	if hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("prey_crash should not repeat for the same crash")
	}
}

func TestBookmarkDetector_SmallDropIgnored(t *testing.T) {
	bd := NewBookmarkDetector(10, 0.3, 10)

	// 60% drop but only 6 animals
	bd.Check(DayStats{Day: 1, Population: 10, PredatorAlive: true})
	bookmarks := bd.Check(DayStats{Day: 2, Population: 4, PredatorAlive: true})
	if hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("drops below min_drop should not bookmark")
	}
}
