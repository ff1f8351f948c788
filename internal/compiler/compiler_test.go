package compiler

import (
	"testing"

	"nitro-core-dx/internal/bmsparse"
)

func TestCompileBasicTimeline(t *testing.T) {
	src := "#BPM 120\n#WAV01 a.wav\n#WAV02 b.wav\n#00111:0102\n#00211:0000\n"
	out := bmsparse.ParseBMS(src, nil)
	if out.Err != nil {
		t.Fatalf("parse error: %v", out.Err)
	}
	chart, diags := Compile(out.Model)
	for _, d := range diags {
		t.Errorf("unexpected diagnostic: %v", d)
	}
	if chart.InitBPM == nil || chart.InitBPM.RatString() != "120" {
		t.Errorf("InitBPM = %v, want 120", chart.InitBPM)
	}
	if len(chart.AllEvents) == 0 {
		t.Fatal("expected at least one event")
	}
	for i := 1; i < len(chart.AllEvents); i++ {
		if chart.AllEvents[i].Y.Cmp(chart.AllEvents[i-1].Y) < 0 {
			t.Fatalf("events not y-ordered at %d", i)
		}
		if chart.AllEvents[i].ActivationTime.Cmp(chart.AllEvents[i-1].ActivationTime) < 0 {
			t.Fatalf("activation times not non-decreasing at %d", i)
		}
	}
}

func TestCompileBpmChangeAffectsLaterActivation(t *testing.T) {
	src := "#BPM 120\n#BPM02 240\n#00108:02\n#WAV01 a.wav\n#00111:01\n#00211:01\n"
	out := bmsparse.ParseBMS(src, nil)
	if out.Err != nil {
		t.Fatalf("parse error: %v", out.Err)
	}
	chart, _ := Compile(out.Model)
	var sawBpmChange bool
	for _, e := range chart.AllEvents {
		if e.Kind == EventBpmChange {
			sawBpmChange = true
		}
	}
	if !sawBpmChange {
		t.Fatal("expected a compiled BpmChange event")
	}
}

func TestCompileLongNoteContinuePlay(t *testing.T) {
	src := "#BPM 120\n#WAV01 a.wav\n#WAV02 b.wav\n#00111:0102\n#LNOBJ 02\n"
	out := bmsparse.ParseBMS(src, nil)
	if out.Err != nil {
		t.Fatalf("parse error: %v", out.Err)
	}
	chart, _ := Compile(out.Model)
	var found bool
	for _, e := range chart.AllEvents {
		if e.Kind != EventNote {
			continue
		}
		p := e.Payload.(NotePayload)
		if p.ContinuePlay != nil {
			found = true
			if p.ContinuePlay.Sign() <= 0 {
				t.Errorf("continue_play = %v, want > 0", p.ContinuePlay)
			}
		}
	}
	if !found {
		t.Fatal("expected a Long begin note with ContinuePlay set")
	}
}
