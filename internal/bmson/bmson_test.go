package bmson

import "testing"

const sampleBMSON = `{
  "version": "1.0.0",
  "info": {
    "title": "Sample",
    "artist": "Tester",
    "genre": "Test",
    "level": 5,
    "init_bpm": 130,
    "resolution": 240,
    "judge_rank": 2,
    "total": 260
  },
  "lines": [{"y": 0}, {"y": 960}],
  "sound_channels": [
    {"name": "kick.wav", "notes": [{"x": 1, "y": 0}, {"x": 2, "y": 480, "l": 240}]},
    {"name": "bgm.wav", "notes": [{"y": 0}]}
  ],
  "mine_channels": [
    {"name": "mine.wav", "notes": [{"x": 3, "y": 240, "damage": 10}]}
  ],
  "bpm_events": [{"y": 960, "bpm": 160}],
  "stop_events": [{"y": 960, "duration": 96}],
  "bga": {
    "bga_header": [{"id": 1, "name": "bg.png"}],
    "bga_events": [{"y": 0, "id": 1}]
  }
}`

func TestParseBMSONBasic(t *testing.T) {
	out := ParseBMSON(sampleBMSON)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v (warnings=%v)", out.Err, out.Warnings)
	}
	m := out.Model
	if m.MusicInfo.Title != "Sample" {
		t.Errorf("Title = %q, want Sample", m.MusicInfo.Title)
	}
	if m.BPM.InitialBPM == nil || m.BPM.InitialBPM.RatString() != "130" {
		t.Errorf("InitialBPM = %v, want 130", m.BPM.InitialBPM)
	}
	if m.Judge.TotalGauge == nil || m.Judge.TotalGauge.RatString() != "260" {
		t.Errorf("TotalGauge = %v, want 260", m.Judge.TotalGauge)
	}
	if len(m.WAV.Notes) != 4 { // note@0, begin+end of the long note, mine
		t.Fatalf("len(Notes) = %d, want 4", len(m.WAV.Notes))
	}
	if len(m.WAV.Bgm) != 1 {
		t.Errorf("len(Bgm) = %d, want 1", len(m.WAV.Bgm))
	}
	if m.BPM.Changes.Len() != 1 {
		t.Errorf("BPM.Changes.Len() = %d, want 1", m.BPM.Changes.Len())
	}
	if m.Stop.Events.Len() != 1 {
		t.Errorf("Stop.Events.Len() = %d, want 1", m.Stop.Events.Len())
	}
	// duration=96 pulses at resolution=240 is 96/(4*240) = 0.1 measure,
	// stored in the BMS #STOP 192nds-of-a-measure unit: 0.1*192 = 19.2 = 96/5.
	for _, t0 := range m.Stop.Events.Keys() {
		dur, _ := m.Stop.Events.Get(t0)
		if dur.RatString() != "96/5" {
			t.Errorf("Stop duration = %s, want 96/5 (192nds-of-a-measure units)", dur.RatString())
		}
	}
	if m.BGA.Defs.Len() != 1 {
		t.Errorf("BGA.Defs.Len() = %d, want 1", m.BGA.Defs.Len())
	}
}

func TestParseBMSONMissingRequiredFields(t *testing.T) {
	out := ParseBMSON(`{"info": {}}`)
	foundMissing := false
	for _, w := range out.Warnings {
		if w.Kind == "MissingRequiredField" {
			foundMissing = true
		}
	}
	if !foundMissing {
		t.Error("expected at least one MissingRequiredField diagnostic")
	}
}

func TestParseBMSONResolutionZeroDefaults(t *testing.T) {
	out := ParseBMSON(`{"info": {"title":"t","artist":"a","level":1,"init_bpm":120,"resolution":0}}`)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	// resolution 0 falls back to 240 and is reported as a warning at
	// $.info.resolution rather than failing the parse.
	var warned bool
	for _, w := range out.Warnings {
		if w.Kind == "InvalidFieldType" && w.Location.JSONPath == "$.info.resolution" {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected an InvalidFieldType warning at $.info.resolution, got %v", out.Warnings)
	}
}

func TestParseBMSONInvalidJSON(t *testing.T) {
	out := ParseBMSON(`{not json`)
	if out.Err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}
