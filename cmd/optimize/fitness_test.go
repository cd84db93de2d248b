package main

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/telemetry"
)

func TestComputeFitness_PrefersSurvival(t *testing.T) {
	long := computeFitness(500, 0)
	short := computeFitness(100, 1)
	if long >= short {
		t.Errorf("longer survival should score lower: %f vs %f", long, short)
	}
	if computeFitness(100, 1) >= computeFitness(100, 0) {
		t.Error("quality should break ties between equal survival")
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.DayStats, 5)
	for i := range steady {
		steady[i].Population = 20
	}

	tests := []struct {
		name string
		r    runResult
		want float64
	}{
		{"nothing left", runResult{}, 0},
		{"all species, steady", runResult{speciesLeft: 3, windowStats: steady}, 1},
		{"one species, no windows", runResult{speciesLeft: 1}, 0.7 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeQuality(&tt.r); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCV(t *testing.T) {
	if got := cv([]float64{5, 5, 5}); got != 0 {
		t.Errorf("constant series cv = %f, want 0", got)
	}
	if got := cv([]float64{0, 0}); got != 0 {
		t.Errorf("zero mean cv = %f, want 0", got)
	}
	if got := cv([]float64{1, 3}); got <= 0 {
		t.Errorf("varying series cv = %f, want > 0", got)
	}
}

func TestEvaluate_WellFedSurvivesCap(t *testing.T) {
	base := config.Default()
	pv := NewParamVector(base)
	fe := NewFitnessEvaluator(pv, 30, []int64{1, 2}, base)

	fitness := fe.Evaluate(pv.DefaultVector())
	if fe.LastSurvival() != 30 {
		t.Errorf("default reserve should outlast 30 days, got %f", fe.LastSurvival())
	}
	if q := fe.LastQuality(); q < 0 || q > 1 {
		t.Errorf("quality out of range: %f", q)
	}
	if fitness > -30 {
		t.Errorf("fitness = %f, want <= -30", fitness)
	}
}

func TestEvaluate_StarvedPredatorGoesDownEarly(t *testing.T) {
	base := config.Default()
	base.Roster = nil
	pv := NewParamVector(base)
	fe := NewFitnessEvaluator(pv, 50, []int64{7}, base)

	// Minimum initial reserve with no prey at all
	fe.Evaluate([]float64{280, 30, 100})
	if got := fe.LastSurvival(); got >= 50 {
		t.Errorf("empty pasture should starve the predator before the cap, survived %f", got)
	}
}

func TestEvalLog_SingleHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	l, err := newEvalLog(path)
	if err != nil {
		t.Fatalf("newEvalLog: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := l.Write(newEvalRecord(i, -10, 10, 0.5, []float64{280, 30, 3000})); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "eval,fitness,survival_days") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestRunSimulation_ReportsBuildError(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	base := config.Default()
	base.Predator.MinReserve = -1
	fe := NewFitnessEvaluator(NewParamVector(nil), 10, []int64{1}, base)

	r := fe.runSimulation(base, 1)
	if !errors.Is(r.err, config.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", r.err)
	}
	if r.survivalDays != 0 {
		t.Errorf("survival = %d, want 0", r.survivalDays)
	}
	if !strings.Contains(buf.String(), `"msg":"failed to build simulation"`) {
		t.Errorf("expected an error log, got %s", buf.String())
	}
}
