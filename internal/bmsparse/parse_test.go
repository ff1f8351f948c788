package bmsparse

import (
	"testing"

	"nitro-core-dx/internal/chartmodel"
)

const sampleBMS = `#TITLE Sample
#ARTIST Tester
#BPM 130
#TOTAL 260
#WAV01 snare.wav
#WAV02 kick.wav
#STOP01 48
#00102:0.75
#00111:0102
#00211:0201
#00109:01000000
`

func TestParseBMSEndToEnd(t *testing.T) {
	out := ParseBMS(sampleBMS, nil)
	if out.Err != nil {
		t.Fatalf("unexpected parse error: %v", out.Err)
	}
	m := out.Model
	if m.MusicInfo.Title != "Sample" {
		t.Errorf("Title = %q, want Sample", m.MusicInfo.Title)
	}
	if m.MusicInfo.Artist != "Tester" {
		t.Errorf("Artist = %q, want Tester", m.MusicInfo.Artist)
	}
	if m.BPM.InitialBPM == nil || m.BPM.InitialBPM.RatString() != "130" {
		t.Errorf("InitialBPM = %v, want 130", m.BPM.InitialBPM)
	}
	if m.Judge.TotalGauge == nil || m.Judge.TotalGauge.RatString() != "260" {
		t.Errorf("TotalGauge = %v, want 260", m.Judge.TotalGauge)
	}
	wantPaths := map[string]string{"01": "snare.wav", "02": "kick.wav"}
	for id, path := range wantPaths {
		objID := mustID(id, false)
		got, ok := m.WAV.Paths.Get(objID)
		if !ok || got != path {
			t.Errorf("WAV path %s = %q, ok=%v, want %q", id, got, ok, path)
		}
	}
	if len(m.WAV.Notes) != 4 {
		t.Fatalf("len(Notes) = %d, want 4", len(m.WAV.Notes))
	}
	length, ok := m.SectionLength.Lengths[1]
	if !ok || length.RatString() != "3/4" {
		t.Errorf("section length track 1 = %v, want 3/4", length)
	}
	stopTime := chartmodel.NewScoreTime(1, 0, 4)
	dur, ok := m.Stop.Events.Get(stopTime)
	if !ok || dur.RatString() != "48" {
		t.Errorf("stop at %v = %v, ok=%v, want 48", stopTime, dur, ok)
	}

	warnings := CheckPlaying(m)
	if len(warnings) != 0 {
		t.Errorf("CheckPlaying() = %v, want none", warnings)
	}
}

func TestParseBMSAdditiveStops(t *testing.T) {
	src := "#STOP01 10\n#STOP02 20\n#00109:01\n#00109:02\n"
	out := ParseBMS(src, nil)
	if out.Err != nil {
		t.Fatalf("unexpected parse error: %v", out.Err)
	}
	dur, ok := out.Model.Stop.Events.Get(chartmodel.NewScoreTime(1, 0, 1))
	if !ok {
		t.Fatal("expected a stop event at (1,0,1)")
	}
	if dur.RatString() != "30" {
		t.Errorf("combined stop = %v, want 30 (10+20, additive)", dur)
	}
}

func TestCheckPlayingReportsMissingTotalAndNotes(t *testing.T) {
	out := ParseBMS("#BPM 120\n", nil)
	warnings := CheckPlaying(out.Model)
	foundTotal, foundNoNotes := false, false
	for _, w := range warnings {
		if w.Kind == "PlayingWarning::TotalUndefined" {
			foundTotal = true
		}
		if w.Kind == "PlayingError::NoNotes" {
			foundNoNotes = true
		}
	}
	if !foundTotal {
		t.Error("expected TotalUndefined warning")
	}
	if !foundNoNotes {
		t.Error("expected NoNotes error")
	}
}

func TestLNOBJPairing(t *testing.T) {
	src := "#WAV01 a.wav\n#WAV02 b.wav\n#00111:0102\n#LNOBJ 02\n"
	out := ParseBMS(src, nil)
	if out.Err != nil {
		t.Fatalf("unexpected parse error: %v", out.Err)
	}
	for _, n := range out.Model.WAV.Notes {
		if n.Kind != chartmodel.NoteLong {
			t.Errorf("note %+v not promoted to Long", n)
		}
	}
}

// TestLNOBJPairingAcrossTracks reproduces spec.md §8 scenario 3: two separate
// tracks each contributing a note with the #LNOBJ id, where the naive "pair
// with the immediate history predecessor" algorithm would wrongly promote
// (2,0,2) instead of (1,1,2).
func TestLNOBJPairingAcrossTracks(t *testing.T) {
	src := "#WAV01 a.wav\n#WAV02 b.wav\n#00111:0102\n#00211:0202\n#LNOBJ 02\n"
	out := ParseBMS(src, nil)
	if out.Err != nil {
		t.Fatalf("unexpected parse error: %v", out.Err)
	}
	var longTimes []chartmodel.ScoreTime
	for _, n := range out.Model.WAV.Notes {
		if n.Kind == chartmodel.NoteLong {
			longTimes = append(longTimes, n.Time)
		}
	}
	if len(longTimes) != 2 {
		t.Fatalf("got %d Long notes %+v, want exactly 2", len(longTimes), longTimes)
	}
	want := []chartmodel.ScoreTime{
		chartmodel.NewScoreTime(1, 1, 2),
		chartmodel.NewScoreTime(2, 1, 2),
	}
	for _, w := range want {
		found := false
		for _, lt := range longTimes {
			if lt.Compare(w) == 0 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a Long note at %+v, got %+v", w, longTimes)
		}
	}
}
