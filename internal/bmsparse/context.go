package bmsparse

import (
	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
	"nitro-core-dx/internal/prompter"
)

// Context is the shared state every Processor mutates while dispatched a
// token. It plays the role the teacher's semantic analysis pass gives a
// single shared *Program during AnalyzeWithDiagnostics.
type Context struct {
	Model         *chartmodel.Model
	Prompter      prompter.Prompter
	ChannelMapper []bmslex.ChannelMapper
	CaseSensitive bool

	Diagnostics []diag.Diagnostic
	Err         *diag.Diagnostic // first fatal error a processor raised, if any

	// noteHistory records, per (side,key), every note placed in that lane
	// in placement order, each with its time and object id, for #LNOBJ
	// pairing (spec.md §4.4 WavProcessor).
	noteHistory map[noteChannelKey][]noteHistoryEntry
}

type noteChannelKey struct {
	Side chartmodel.Side
	Key  int
}

type noteHistoryEntry struct {
	Time chartmodel.ScoreTime
	ID   chartmodel.ObjectID
}

func NewContext(model *chartmodel.Model, p prompter.Prompter, mappers []bmslex.ChannelMapper, caseSensitive bool) *Context {
	return &Context{
		Model:         model,
		Prompter:      p,
		ChannelMapper: mappers,
		CaseSensitive: caseSensitive,
		noteHistory:   make(map[noteChannelKey][]noteHistoryEntry),
	}
}

func (c *Context) warn(d diag.Diagnostic) { c.Diagnostics = append(c.Diagnostics, d) }

func (c *Context) fail(d diag.Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
	if c.Err == nil {
		c.Err = &d
	}
}

// applyDef resolves a def-slot duplication via Context.Prompter and
// reports the chosen resolution (spec.md §4.3 apply_def).
func (c *Context) applyDef(kind prompter.DefKind, id string, exists bool) bool {
	if !exists {
		return true
	}
	w := c.Prompter.HandleDefDuplication(prompter.DefDuplication{Kind: kind, ID: id})
	res := prompter.ApplyDef(w, kind, id)
	if res.Warning != nil {
		c.warn(*res.Warning)
	}
	if res.Err != nil {
		c.fail(*res.Err)
	}
	return res.UseNew
}

// applyTrack resolves a duplicate section-length entry on the same track.
func (c *Context) applyTrack(track int64, exists bool) bool {
	if !exists {
		return true
	}
	w := c.Prompter.HandleTrackDuplication(prompter.TrackDuplication{Track: track})
	res := prompter.ApplyTrack(w, track)
	if res.Warning != nil {
		c.warn(*res.Warning)
	}
	if res.Err != nil {
		c.fail(*res.Err)
	}
	return res.UseNew
}

// applyChannel resolves a same-time channel collision (spec.md §4.3 apply_channel).
func (c *Context) applyChannel(kind prompter.ChannelKind, at string, exists bool) bool {
	if !exists {
		return true
	}
	w := c.Prompter.HandleChannelDuplication(prompter.ChannelDuplication{Kind: kind, Time: at})
	res := prompter.ApplyChannel(w, kind, at)
	if res.Warning != nil {
		c.warn(*res.Warning)
	}
	if res.Err != nil {
		c.fail(*res.Err)
	}
	return res.UseNew
}
