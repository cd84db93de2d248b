package telemetry

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store records run history in SQLite. It only appends and reads back
// history; a run is never restored from it.
type Store struct {
	conn *sqlx.DB
}

// RunInfo describes one recorded run.
type RunInfo struct {
	ID         string `db:"id"`
	Seed       int64  `db:"seed"`
	StartedAt  int64  `db:"started_at"` // unix seconds
	ConfigYAML string `db:"config_yaml"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// OpenStore opens or creates a SQLite database at the given path.
func OpenStore(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		config_yaml TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_stats (
		run_id TEXT NOT NULL,
		window_start INTEGER NOT NULL,
		day INTEGER NOT NULL,
		population INTEGER NOT NULL,
		cows INTEGER NOT NULL,
		goats INTEGER NOT NULL,
		rabbits INTEGER NOT NULL,
		sick INTEGER NOT NULL,
		births INTEGER NOT NULL,
		births_cow INTEGER NOT NULL,
		births_goat INTEGER NOT NULL,
		births_rabbit INTEGER NOT NULL,
		deaths_age INTEGER NOT NULL,
		deaths_disease INTEGER NOT NULL,
		deaths_predation INTEGER NOT NULL,
		kills INTEGER NOT NULL,
		eaten REAL NOT NULL,
		banked REAL NOT NULL,
		drawn REAL NOT NULL,
		predator_alive INTEGER NOT NULL,
		reserve REAL NOT NULL,
		consumed REAL NOT NULL,
		biomass REAL NOT NULL,
		weight_mean REAL NOT NULL,
		weight_std REAL NOT NULL,
		weight_p50 REAL NOT NULL,
		weight_p90 REAL NOT NULL,
		PRIMARY KEY (run_id, day)
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		type TEXT NOT NULL,
		day INTEGER NOT NULL,
		description TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_run ON bookmarks(run_id, day);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// BeginRun records a new run. StartedAt defaults to now.
func (s *Store) BeginRun(run RunInfo) error {
	if s == nil {
		return nil
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().Unix()
	}
	_, err := s.conn.NamedExec(`INSERT INTO runs (id, seed, started_at, config_yaml)
		VALUES (:id, :seed, :started_at, :config_yaml)`, run)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const dayStatsColumns = `run_id, window_start, day, population, cows, goats, rabbits, sick,
	births, births_cow, births_goat, births_rabbit, deaths_age, deaths_disease, deaths_predation,
	kills, eaten, banked, drawn, predator_alive, reserve, consumed,
	biomass, weight_mean, weight_std, weight_p50, weight_p90`

// WriteDayStats appends one stats record for runID.
func (s *Store) WriteDayStats(runID string, stats DayStats) error {
	if s == nil {
		return nil
	}
	stats.RunID = runID
	_, err := s.conn.NamedExec(`INSERT INTO day_stats (`+dayStatsColumns+`) VALUES (
		:run_id, :window_start, :day, :population, :cows, :goats, :rabbits, :sick,
		:births, :births_cow, :births_goat, :births_rabbit, :deaths_age, :deaths_disease, :deaths_predation,
		:kills, :eaten, :banked, :drawn, :predator_alive, :reserve, :consumed,
		:biomass, :weight_mean, :weight_std, :weight_p50, :weight_p90)`, stats)
	if err != nil {
		return fmt.Errorf("insert day stats: %w", err)
	}
	return nil
}

// WriteBookmark appends one bookmark for runID.
func (s *Store) WriteBookmark(runID string, b Bookmark) error {
	if s == nil {
		return nil
	}
	b.RunID = runID
	_, err := s.conn.NamedExec(`INSERT INTO bookmarks (run_id, type, day, description)
		VALUES (:run_id, :type, :day, :description)`, b)
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

// LoadDayStats returns the stats recorded for runID ordered by day.
func (s *Store) LoadDayStats(runID string) ([]DayStats, error) {
	var out []DayStats
	err := s.conn.Select(&out, `SELECT `+dayStatsColumns+` FROM day_stats WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("select day stats: %w", err)
	}
	return out, nil
}

// LoadBookmarks returns the bookmarks recorded for runID ordered by day.
func (s *Store) LoadBookmarks(runID string) ([]Bookmark, error) {
	var out []Bookmark
	err := s.conn.Select(&out, `SELECT run_id, type, day, description FROM bookmarks WHERE run_id = ? ORDER BY day, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("select bookmarks: %w", err)
	}
	return out, nil
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs() ([]RunInfo, error) {
	var out []RunInfo
	if err := s.conn.Select(&out, `SELECT id, seed, started_at, config_yaml FROM runs ORDER BY started_at DESC, id`); err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return out, nil
}

// HistoryFromStats converts stored stats into chart samples.
func HistoryFromStats(stats []DayStats, size int) *History {
	h := NewHistory(size)
	for _, s := range stats {
		h.Add(Sample{
			Day:           s.Day,
			Counts:        [3]int{s.Cows, s.Goats, s.Rabbits},
			Reserve:       s.Reserve,
			PredatorAlive: s.PredatorAlive,
		})
	}
	return h
}
