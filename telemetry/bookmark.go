package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPredatorDown   BookmarkType = "predator_down"
	BookmarkSpeciesExtinct BookmarkType = "species_extinct"
	BookmarkPreyCrash      BookmarkType = "prey_crash"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	RunID       string       `csv:"-" db:"run_id"`
	Type        BookmarkType `csv:"type" db:"type"`
	Day         int          `csv:"day" db:"day"`
	Description string       `csv:"description" db:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"day", b.Day,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable days in the simulation.
type BookmarkDetector struct {
	// Rolling prey totals (circular buffer)
	history     []int
	historySize int
	historyIdx  int
	historyFull bool

	dropPercent float64
	minDrop     int

	last    DayStats
	hasLast bool
}

// NewBookmarkDetector creates a detector with the given history size and
// prey crash thresholds.
func NewBookmarkDetector(historySize int, dropPercent float64, minDrop int) *BookmarkDetector {
	if historySize < 2 {
		historySize = 2
	}
	return &BookmarkDetector{
		history:     make([]int, historySize),
		historySize: historySize,
		dropPercent: dropPercent,
		minDrop:     minDrop,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats DayStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.hasLast {
		if b := bd.checkPredatorDown(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		bookmarks = append(bookmarks, bd.checkExtinctions(stats)...)
	}
	if b := bd.checkPreyCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats.Population)
	bd.last = stats
	bd.hasLast = true

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(population int) {
	bd.history[bd.historyIdx] = population
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []int {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) resetHistory() {
	bd.historyIdx = 0
	bd.historyFull = false
}

func (bd *BookmarkDetector) checkPredatorDown(stats DayStats) *Bookmark {
	if !bd.last.PredatorAlive || stats.PredatorAlive {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPredatorDown,
		Day:         stats.Day,
		Description: fmt.Sprintf("Predator went down with reserve %.1f kg and %d prey left", stats.Reserve, stats.Population),
	}
}

func (bd *BookmarkDetector) checkExtinctions(stats DayStats) []Bookmark {
	var out []Bookmark
	check := func(name string, before, now int) {
		if before > 0 && now == 0 {
			out = append(out, Bookmark{
				Type:        BookmarkSpeciesExtinct,
				Day:         stats.Day,
				Description: fmt.Sprintf("%s died out (was %d)", name, before),
			})
		}
	}
	check("Cow", bd.last.Cows, stats.Cows)
	check("Goat", bd.last.Goats, stats.Goats)
	check("Rabbit", bd.last.Rabbits, stats.Rabbits)
	return out
}

func (bd *BookmarkDetector) checkPreyCrash(stats DayStats) *Bookmark {
	peak := 0
	for _, p := range bd.getHistory() {
		if p > peak {
			peak = p
		}
	}
	if peak == 0 {
		return nil
	}

	drop := peak - stats.Population
	dropPercent := float64(drop) / float64(peak)
	if dropPercent > bd.dropPercent && drop >= bd.minDrop {
		// Start a fresh window so one crash fires once
		bd.resetHistory()
		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Day:         stats.Day,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, peak, stats.Population),
		}
	}

	return nil
}
