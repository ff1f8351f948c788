package bmsparse

import (
	"nitro-core-dx/internal/bmslex"
	"nitro-core-dx/internal/chartmodel"
	"nitro-core-dx/internal/diag"
)

// Processor owns one chart-model aggregate and is offered every header and
// message token (spec.md §4.4). Handled reports whether this processor
// recognized the token, purely informational: the master loop always
// offers a token to every processor, since "the contract is that
// processors commute where they overlap".
type Processor interface {
	OnHeader(ctx *Context, name, args string) (handled bool)
	OnMessage(ctx *Context, track int64, channel bmslex.Channel, message string) (handled bool)
}

// AllProcessors is the registration order spec.md §4.4 lists. Order only
// matters for diagnostics determinism, never for final model state.
func AllProcessors() []Processor {
	return []Processor{
		MetaProcessor{},
		WavProcessor{},
		BpmProcessor{},
		StopProcessor{},
		FactorProcessor{Kind: FactorScroll},
		FactorProcessor{Kind: FactorSpeed},
		SectionLenProcessor{},
		JudgeProcessor{},
		BgaProcessor{},
		TextProcessor{},
		OptionProcessor{},
		VolumeProcessor{},
	}
}

// Dispatch runs the master parse loop (spec.md §4.4): every token is
// offered to every processor in order.
func Dispatch(ctx *Context, tokens []bmslex.Token, processors []Processor) {
	for _, tok := range tokens {
		switch tok.Kind {
		case bmslex.TokenHeader:
			for _, p := range processors {
				p.OnHeader(ctx, tok.HeaderName, tok.HeaderArgs)
			}
		case bmslex.TokenMessage:
			ch, ok := bmslex.LookupChannel(tok.Channel, ctx.ChannelMapper)
			if !ok {
				ctx.warn(diag.Warningf(diag.StageParse, diag.KindUnknownChannel, diag.AtByteRange(tok.Range.Start, tok.Range.End),
					"unrecognized channel code %q on track %d", tok.Channel, tok.Track))
				continue
			}
			for _, p := range processors {
				p.OnMessage(ctx, tok.Track, ch, tok.Message)
			}
		case bmslex.TokenNotACommand:
			ctx.Model.NotACommand = append(ctx.Model.NotACommand, chartmodel.NotACommandLine{
				Position: len(ctx.Model.NotACommand),
				Text:     tok.Text,
			})
		}
	}
}
