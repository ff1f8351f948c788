package compiler

import (
	"math/big"
	"sort"

	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
)

const defaultBPM = 130

// measuresFromStopUnits expresses a raw BMS stop value (192nds of a measure) as a measure
// count, so it composes with the same "y-units * 240 / bpm" time formula
// spec.md §4.6 uses for ordinary y-advancement.
func measuresFromStopUnits(raw *chartmodel.Decimal) *chartmodel.Decimal {
	return new(big.Rat).Quo(raw, big.NewRat(192, 1))
}

// Compile flattens model into a ParsedChart (spec.md §4.6). It never
// mutates model (spec.md §3 "Lifecycles": the chart model is read-only
// after parse).
func Compile(model *chartmodel.Model) (*ParsedChart, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	yc := newYConverter(model)

	// spec.md §3 "Invariants": a note's wav-id not present in the WAV map
	// is a warning, not a parse error, since it's common in real-world
	// authoring (missing/renamed sample files).
	for _, n := range model.WAV.Notes {
		if n.WavID.IsAbsent() {
			continue
		}
		if !model.WAV.Paths.Has(n.WavID) {
			diags = append(diags, diag.Warningf(diag.StageCompile, diag.KindUndefinedObject, diag.Location{},
				"note at %s references undefined wav id %s", n.Time, n.WavID))
		}
	}

	var events []TimelineEvent
	add := func(t chartmodel.ScoreTime, kind EventKind, payload any) {
		events = append(events, TimelineEvent{Y: yc.Y(t), Kind: kind, Payload: payload})
	}

	for _, n := range model.WAV.Notes {
		add(n.Time, EventNote, NotePayload{Side: n.Side, Key: n.Key, Kind: n.Kind, WavID: n.WavID, Continue: n.Continue})
	}
	for _, b := range model.WAV.Bgm {
		add(b.Time, EventBgm, b.WavID)
	}
	model.BPM.Changes.Each(func(t chartmodel.ScoreTime, c chartmodel.BPMChange) {
		add(t, EventBpmChange, BpmChangePayload{BPM: c.Value})
	})
	model.BPM.RawU8.Each(func(t chartmodel.ScoreTime, v *chartmodel.Decimal) {
		add(t, EventBpmChange, BpmChangePayload{BPM: v})
	})
	model.Stop.Events.Each(func(t chartmodel.ScoreTime, dur *chartmodel.Decimal) {
		add(t, EventStop, StopPayload{DurationSeconds: measuresFromStopUnits(dur)})
	})
	model.Scroll.Changes.Each(func(t chartmodel.ScoreTime, c chartmodel.FactorChange) {
		add(t, EventScrollChange, FactorChangePayload{Factor: c.Value})
	})
	model.Speed.Changes.Each(func(t chartmodel.ScoreTime, c chartmodel.FactorChange) {
		add(t, EventSpeedChange, FactorChangePayload{Factor: c.Value})
	})
	for _, layer := range []chartmodel.BGALayer{chartmodel.BGALayerBase, chartmodel.BGALayerOverlay, chartmodel.BGALayerOverlay2, chartmodel.BGALayerMiss} {
		if lm, ok := model.BGA.Layers[layer]; ok {
			lm.Each(func(t chartmodel.ScoreTime, id chartmodel.ObjectID) {
				idc := id
				add(t, EventBgaChange, BgaPayload{Layer: layer, BmpID: &idc})
			})
		}
		if om, ok := model.BGA.Opacity[layer]; ok {
			om.Each(func(t chartmodel.ScoreTime, v uint8) {
				vc := v
				add(t, EventBgaOpacityChange, BgaPayload{Layer: layer, Opacity: &vc})
			})
		}
		if am, ok := model.BGA.ARGB[layer]; ok {
			am.Each(func(t chartmodel.ScoreTime, v uint32) {
				vc := v
				add(t, EventBgaArgbChange, BgaPayload{Layer: layer, ARGB: &vc})
			})
		}
	}
	model.Volume.BGMChanges.Each(func(t chartmodel.ScoreTime, v uint8) {
		add(t, EventBgmVolumeChange, VolumePayload{Volume: v})
	})
	model.Volume.KeyChanges.Each(func(t chartmodel.ScoreTime, v uint8) {
		add(t, EventKeyVolumeChange, VolumePayload{Volume: v})
	})
	model.Text.Events.Each(func(t chartmodel.ScoreTime, id chartmodel.ObjectID) {
		add(t, EventTextDisplay, IDValuePayload{ID: id})
	})
	model.Judge.Changes.Each(func(t chartmodel.ScoreTime, c chartmodel.JudgeChange) {
		add(t, EventJudgeLevelChange, IDValuePayload{ID: c.DefID, Level: c.Level})
	})
	model.Option.Changes.Each(func(t chartmodel.ScoreTime, id chartmodel.ObjectID) {
		add(t, EventOptionChange, IDValuePayload{ID: id})
	})
	for _, y := range yc.barLines() {
		events = append(events, TimelineEvent{Y: y, Kind: EventBarLine})
	}

	sort.SliceStable(events, func(i, j int) bool {
		c := events[i].Y.Cmp(events[j].Y)
		if c != 0 {
			return c < 0
		}
		return kindPriority(events[i].Kind) < kindPriority(events[j].Kind)
	})

	initBPM := model.BPM.InitialBPM
	if initBPM == nil {
		for _, e := range events {
			if e.Kind == EventBpmChange {
				initBPM = e.Payload.(BpmChangePayload).BPM
				break
			}
		}
	}
	if initBPM == nil {
		initBPM = chartmodel.NewDecimalInt(defaultBPM)
	}

	walkActivationTimes(events, initBPM)
	computeContinuePlay(events)

	var flow []TimelineEvent
	for _, e := range events {
		if e.Kind.flowKind() {
			flow = append(flow, e)
		}
	}

	return &ParsedChart{AllEvents: events, FlowEventsByY: flow, InitBPM: initBPM}, diags
}

// walkActivationTimes implements spec.md §4.6's activation-time
// precomputation: a single forward sweep over the y-sorted timeline,
// maintaining (current_bpm, current_y, current_time) exactly as decimals.
func walkActivationTimes(events []TimelineEvent, initBPM *chartmodel.Decimal) {
	currentBPM := new(big.Rat).Set(initBPM)
	currentY := new(big.Rat)
	currentTime := new(big.Rat)
	twoForty := big.NewRat(240, 1)

	for i := range events {
		e := &events[i]
		dy := new(big.Rat).Sub(e.Y, currentY)
		if dy.Sign() > 0 && currentBPM.Sign() != 0 {
			dt := new(big.Rat).Quo(new(big.Rat).Mul(dy, twoForty), currentBPM)
			currentTime.Add(currentTime, dt)
		}
		currentY.Set(e.Y)
		e.ActivationTime = new(big.Rat).Set(currentTime)

		switch e.Kind {
		case EventBpmChange:
			if bpm := e.Payload.(BpmChangePayload).BPM; bpm != nil && bpm.Sign() != 0 {
				currentBPM.Set(bpm)
			}
		case EventStop:
			p := e.Payload.(StopPayload)
			if currentBPM.Sign() != 0 {
				dt := new(big.Rat).Quo(new(big.Rat).Mul(p.DurationSeconds, twoForty), currentBPM)
				currentTime.Add(currentTime, dt)
			}
		}
	}
}

// computeContinuePlay implements spec.md §4.6's long-note continue_play:
// for each Long begin note, find the paired end note (the next Long note
// in document order on the same side+key) and store the elapsed time
// between their already-computed activation times.
func computeContinuePlay(events []TimelineEvent) {
	type laneKey struct {
		Side chartmodel.Side
		Key  int
	}
	pending := map[laneKey]int{} // lane -> index of an unmatched Long begin event

	for i := range events {
		if events[i].Kind != EventNote {
			continue
		}
		p, ok := events[i].Payload.(NotePayload)
		if !ok || p.Kind != chartmodel.NoteLong {
			continue
		}
		key := laneKey{Side: p.Side, Key: p.Key}
		beginIdx, open := pending[key]
		if !open {
			pending[key] = i
			continue
		}
		delete(pending, key)
		dur := new(big.Rat).Sub(events[i].ActivationTime, events[beginIdx].ActivationTime)
		beginPayload := events[beginIdx].Payload.(NotePayload)
		beginPayload.ContinuePlay = dur
		beginPayload.Length = new(big.Rat).Sub(events[i].Y, events[beginIdx].Y)
		events[beginIdx].Payload = beginPayload
	}
}
