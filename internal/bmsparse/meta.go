package bmsparse

import (
	"strconv"
	"strings"

	"nitro-core-dx/internal/bmslex"
)

// MetaProcessor fills MusicInfo and the simple Metadata scalar fields from
// header-only commands (spec.md §3 "Metadata"/"MusicInfo").
type MetaProcessor struct{}

func (MetaProcessor) OnHeader(ctx *Context, name, args string) bool {
	args = strings.TrimSpace(args)
	switch strings.ToUpper(name) {
	case "TITLE":
		ctx.Model.MusicInfo.Title = args
	case "SUBTITLE":
		ctx.Model.MusicInfo.Subtitle = args
	case "ARTIST":
		ctx.Model.MusicInfo.Artist = args
	case "SUBARTIST":
		ctx.Model.MusicInfo.SubArtist = args
	case "GENRE":
		ctx.Model.MusicInfo.Genre = args
	case "MAKER":
		ctx.Model.MusicInfo.Maker = args
	case "PREVIEW":
		ctx.Model.MusicInfo.PreviewMusic = args
	case "PLAYLEVEL":
		if v, err := strconv.Atoi(args); err == nil {
			ctx.Model.Metadata.PlayLevel = v
		}
	case "DIFFICULTY":
		if v, err := strconv.Atoi(args); err == nil && v >= 0 && v <= 5 {
			ctx.Model.Metadata.Difficulty = difficultyFromInt(v)
		}
	case "EMAIL":
		ctx.Model.Metadata.Email = args
	case "URL", "WEBSITE":
		ctx.Model.Metadata.URL = args
	case "WAV", "PATH_WAV":
		ctx.Model.Metadata.WavPathRoot = args
	case "OCT/FP", "OCTAVE":
		ctx.Model.Metadata.OctaveMode = true
	default:
		return false
	}
	return true
}

func (MetaProcessor) OnMessage(*Context, int64, bmslex.Channel, string) bool { return false }
