package bmson

import (
	"fmt"

	"github.com/tidwall/gjson"

	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
)

func (v *validator) readSoundChannels(arr gjson.Result, resolution int64, bars barLayout) {
	arr.ForEach(func(idx, ch gjson.Result) bool {
		base := fmt.Sprintf("$.sound_channels[%d]", idx.Int())
		name, ok := asString(ch.Get("name"), base+".name", v)
		if !ok {
			return true
		}
		wavID := v.ids.next36()
		v.model.WAV.Paths.Set(wavID, name)
		ch.Get("notes").ForEach(func(j, n gjson.Result) bool {
			v.addSoundNote(n, fmt.Sprintf("%s.notes[%d]", base, j.Int()), wavID, resolution, bars, chartmodel.NoteVisible)
			return true
		})
		return true
	})
}

func (v *validator) readKeyChannels(arr gjson.Result, resolution int64, bars barLayout) {
	arr.ForEach(func(idx, ch gjson.Result) bool {
		base := fmt.Sprintf("$.key_channels[%d]", idx.Int())
		name, ok := asString(ch.Get("name"), base+".name", v)
		if !ok {
			return true
		}
		wavID := v.ids.next36()
		v.model.WAV.Paths.Set(wavID, name)
		ch.Get("notes").ForEach(func(j, n gjson.Result) bool {
			v.addSoundNote(n, fmt.Sprintf("%s.notes[%d]", base, j.Int()), wavID, resolution, bars, chartmodel.NoteInvisible)
			return true
		})
		return true
	})
}

// addSoundNote implements spec.md §4.5's long-note expansion: a note with
// l > 0 becomes a begin event at y and an end event at y + l/(4*resolution),
// both carrying the Long kind. x absent or zero means the note is a
// non-judged background cue (chartmodel.BgmEvent), mirroring BMS's Bgm
// channel.
func (v *validator) addSoundNote(n gjson.Result, path string, wavID chartmodel.ObjectID, resolution int64, bars barLayout, defaultKind chartmodel.NoteKind) {
	yPulses, ok := asInt(n.Get("y"), path+".y", v)
	if !ok {
		return
	}
	y := pulseToY(yPulses, resolution)
	begin := bars.scoreTime(y, v.model.SectionLength.Lengths)

	x, hasX := asInt(n.Get("x"), path+".x", nil)
	cont, _ := asBool(n.Get("c"), path+".c", nil)
	length, hasLen := asInt(n.Get("l"), path+".l", nil)

	if !hasX || x == 0 {
		v.model.WAV.Bgm = append(v.model.WAV.Bgm, chartmodel.BgmEvent{Time: begin, WavID: wavID})
		return
	}

	kind := defaultKind
	if hasLen && length > 0 {
		kind = chartmodel.NoteLong
	}
	v.model.WAV.Notes = append(v.model.WAV.Notes, chartmodel.Note{
		Time: begin, Side: chartmodel.Side1P, Key: int(x), Kind: kind, WavID: wavID, Continue: cont,
	})
	if hasLen && length > 0 {
		endY := new(chartmodel.Y).Add(y, pulseToY(length, resolution))
		end := bars.scoreTime(endY, v.model.SectionLength.Lengths)
		v.model.WAV.Notes = append(v.model.WAV.Notes, chartmodel.Note{
			Time: end, Side: chartmodel.Side1P, Key: int(x), Kind: chartmodel.NoteLong, WavID: wavID, Continue: cont,
		})
	}
}

func (v *validator) readMineChannels(arr gjson.Result, resolution int64, bars barLayout) {
	arr.ForEach(func(idx, ch gjson.Result) bool {
		base := fmt.Sprintf("$.mine_channels[%d]", idx.Int())
		name, ok := asString(ch.Get("name"), base+".name", v)
		if !ok {
			return true
		}
		wavID := v.ids.next36()
		v.model.WAV.Paths.Set(wavID, name)
		ch.Get("notes").ForEach(func(j, n gjson.Result) bool {
			npath := fmt.Sprintf("%s.notes[%d]", base, j.Int())
			yPulses, ok := asInt(n.Get("y"), npath+".y", v)
			if !ok {
				return true
			}
			x, hasX := asInt(n.Get("x"), npath+".x", nil)
			if !hasX {
				return true
			}
			y := pulseToY(yPulses, resolution)
			t := bars.scoreTime(y, v.model.SectionLength.Lengths)
			v.model.WAV.Notes = append(v.model.WAV.Notes, chartmodel.Note{
				Time: t, Side: chartmodel.Side1P, Key: int(x), Kind: chartmodel.NoteLandmine, WavID: wavID,
			})
			return true
		})
		return true
	})
}

func (v *validator) readBpmEvents(arr gjson.Result, resolution int64, bars barLayout) {
	arr.ForEach(func(idx, ev gjson.Result) bool {
		base := fmt.Sprintf("$.bpm_events[%d]", idx.Int())
		yPulses, ok := asInt(ev.Get("y"), base+".y", v)
		if !ok {
			return true
		}
		bpm, ok := asDecimal(ev.Get("bpm"), base+".bpm", v)
		if !ok {
			return true
		}
		t := bars.scoreTime(pulseToY(yPulses, resolution), v.model.SectionLength.Lengths)
		id := v.ids.next36()
		v.model.BPM.Defs.Set(id, bpm)
		v.model.BPM.Changes.Set(t, chartmodel.BPMChange{DefID: id, Value: bpm})
		return true
	})
}

func (v *validator) readStopEvents(arr gjson.Result, resolution int64, bars barLayout) {
	arr.ForEach(func(idx, ev gjson.Result) bool {
		base := fmt.Sprintf("$.stop_events[%d]", idx.Int())
		yPulses, ok := asInt(ev.Get("y"), base+".y", v)
		if !ok {
			return true
		}
		durPulses, ok := asInt(ev.Get("duration"), base+".duration", v)
		if !ok {
			return true
		}
		t := bars.scoreTime(pulseToY(yPulses, resolution), v.model.SectionLength.Lengths)
		// Re-express the pulse duration in the same 192nds-of-a-measure
		// unit BMS #STOP defs use, so the compiler's stop formula
		// (duration / 192 * 240 / current_bpm) needs no format-specific branch.
		dur := new(chartmodel.Decimal).Quo(big192(durPulses), chartmodel.NewDecimalInt(4*resolution))
		if existing, ok := v.model.Stop.Events.Get(t); ok {
			dur = new(chartmodel.Decimal).Add(existing, dur)
		}
		v.model.Stop.Events.Set(t, dur)
		return true
	})
}

func big192(n int64) *chartmodel.Decimal { return chartmodel.NewDecimalInt(192 * n) }

func (v *validator) readScrollEvents(arr gjson.Result, resolution int64, bars barLayout) {
	arr.ForEach(func(idx, ev gjson.Result) bool {
		base := fmt.Sprintf("$.scroll_events[%d]", idx.Int())
		yPulses, ok := asInt(ev.Get("y"), base+".y", v)
		if !ok {
			return true
		}
		rate, ok := asDecimal(ev.Get("rate"), base+".rate", v)
		if !ok {
			return true
		}
		t := bars.scoreTime(pulseToY(yPulses, resolution), v.model.SectionLength.Lengths)
		id := v.ids.next36()
		v.model.Scroll.Defs.Set(id, rate)
		v.model.Scroll.Changes.Set(t, chartmodel.FactorChange{DefID: id, Value: rate})
		return true
	})
}

func (v *validator) readBga(bga gjson.Result, resolution int64, bars barLayout) {
	if !bga.Exists() {
		return
	}
	bga.Get("bga_header").ForEach(func(_, h gjson.Result) bool {
		id, ok := asInt(h.Get("id"), "$.bga.bga_header[].id", v)
		if !ok {
			return true
		}
		name, ok := asString(h.Get("name"), "$.bga.bga_header[].name", v)
		if !ok {
			return true
		}
		objID := v.ids.next36()
		v.bgaDefs[id] = objID
		v.model.BGA.Defs.Set(objID, chartmodel.BMPDescriptor{Path: name})
		return true
	})

	apply := func(arrName string, layer chartmodel.BGALayer) {
		bga.Get(arrName).ForEach(func(_, ev gjson.Result) bool {
			path := "$.bga." + arrName + "[]"
			yPulses, ok := asInt(ev.Get("y"), path+".y", v)
			if !ok {
				return true
			}
			headerID, ok := asInt(ev.Get("id"), path+".id", v)
			if !ok {
				return true
			}
			objID, ok := v.bgaDefs[headerID]
			if !ok {
				v.fail(diag.KindUndefinedObject, path+".id", "bga header id %d is undefined", headerID)
				return true
			}
			t := bars.scoreTime(pulseToY(yPulses, resolution), v.model.SectionLength.Lengths)
			v.model.BGA.LayerChanges(layer).Set(t, objID)
			return true
		})
	}
	apply("bga_events", chartmodel.BGALayerBase)
	apply("layer_events", chartmodel.BGALayerOverlay)
	apply("poor_events", chartmodel.BGALayerMiss)
}
