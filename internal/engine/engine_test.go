package engine

import (
	"testing"
	"time"

	"nitro-core-dx/internal/bmsparse"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/compiler"
)

func sampleChart(t *testing.T) *compiler.ParsedChart {
	t.Helper()
	src := "#BPM 120\n#WAV01 a.wav\n#WAV02 b.wav\n#00111:0102\n#00211:0201\n"
	out := bmsparse.ParseBMS(src, nil)
	if out.Err != nil {
		t.Fatalf("parse error: %v", out.Err)
	}
	chart, diags := compiler.Compile(out.Model)
	for _, d := range diags {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	return chart
}

func TestEngineEmitsEachEventOnce(t *testing.T) {
	chart := sampleChart(t)
	start := time.Unix(0, 0)
	e := Start(chart, 2*time.Second, chartmodel.NewDecimalInt(120), start)

	var total []compiler.TimelineEvent
	now := start
	// 60 steps of 100ms = 6s, past the last note's activation at 5s.
	for i := 0; i < 60; i++ {
		now = now.Add(100 * time.Millisecond)
		total = append(total, e.Update(now)...)
	}
	if len(total) != len(chart.AllEvents) {
		t.Fatalf("emitted %d events, want %d", len(total), len(chart.AllEvents))
	}
}

func TestEngineDeterministicAcrossPartitioning(t *testing.T) {
	chart := sampleChart(t)
	start := time.Unix(0, 0)
	final := start.Add(2 * time.Second)

	e1 := Start(chart, 2*time.Second, chartmodel.NewDecimalInt(120), start)
	single := e1.Update(final)

	e2 := Start(chart, 2*time.Second, chartmodel.NewDecimalInt(120), start)
	var split []compiler.TimelineEvent
	mid := start.Add(700 * time.Millisecond)
	split = append(split, e2.Update(mid)...)
	split = append(split, e2.Update(final)...)

	if len(single) != len(split) {
		t.Fatalf("single-call emitted %d events, split calls emitted %d", len(single), len(split))
	}
	if e1.state.ElapsedTime.Cmp(e2.state.ElapsedTime) != 0 {
		t.Errorf("ElapsedTime diverged: %v vs %v", e1.state.ElapsedTime, e2.state.ElapsedTime)
	}
	if e1.state.ProgressedY.Cmp(e2.state.ProgressedY) != 0 {
		t.Errorf("ProgressedY diverged: %v vs %v", e1.state.ProgressedY, e2.state.ProgressedY)
	}
}

func TestEnginePauseHaltsProgress(t *testing.T) {
	chart := sampleChart(t)
	start := time.Unix(0, 0)
	e := Start(chart, 2*time.Second, chartmodel.NewDecimalInt(120), start)
	e.Pause()
	e.Update(start.Add(5 * time.Second))
	if e.state.ProgressedY.Sign() != 0 {
		t.Errorf("ProgressedY = %v, want 0 while paused", e.state.ProgressedY)
	}
}

func TestEngineSeekRearmsEvents(t *testing.T) {
	chart := sampleChart(t)
	start := time.Unix(0, 0)
	e := Start(chart, 2*time.Second, chartmodel.NewDecimalInt(120), start)
	e.Update(start.Add(5 * time.Second))
	if e.cursor == 0 {
		t.Fatal("expected some events already emitted")
	}
	// Events at the seek target itself count as played: only the track-0
	// bar line sits at y=0, so the cursor lands on the next event.
	e.SeekTo(new(chartmodel.Y))
	if e.cursor != 1 {
		t.Errorf("cursor = %d after seeking to 0, want 1", e.cursor)
	}
	replayed := e.Update(start.Add(5 * time.Second))
	if len(replayed) == 0 {
		t.Error("expected events to be re-emitted after a backward seek")
	}
}
