package bmslex

import "nitro-core-dx/internal/chartmodel"

// ChannelKind tags which aggregate a message channel feeds, mirroring
// original_source/src/bms/lex/command/channel.rs's Channel enum.
type ChannelKind int

const (
	ChannelUnknown ChannelKind = iota
	ChannelBgm
	ChannelSectionLen
	ChannelBpmChangeU8
	ChannelBpmChange
	ChannelStop
	ChannelScroll
	ChannelSpeed
	ChannelBgaBase
	ChannelBgaLayer
	ChannelBgaPoor
	ChannelBgaOpacity
	ChannelBgaArgb
	ChannelChangeOption
	ChannelJudge
	ChannelText
	ChannelBgmVolume
	ChannelKeyVolume
	ChannelNote
)

// Channel is the decoded meaning of a message command's 2-character code.
type Channel struct {
	Kind ChannelKind
	Note NoteChannel
}

// NoteChannel carries the extra fields ChannelNote needs.
type NoteChannel struct {
	Kind chartmodel.NoteKind
	Side chartmodel.Side
	Key  int
}

// ChannelMapper recognizes a subset of channel codes; chained mappers are
// tried in order and the first match wins (spec.md §4.1).
type ChannelMapper func(code string) (Channel, bool)

func readGeneral(code string) (Channel, bool) {
	switch code {
	case "01":
		return Channel{Kind: ChannelBgm}, true
	case "02":
		return Channel{Kind: ChannelSectionLen}, true
	case "03":
		return Channel{Kind: ChannelBpmChangeU8}, true
	case "08":
		return Channel{Kind: ChannelBpmChange}, true
	case "04":
		return Channel{Kind: ChannelBgaBase}, true
	case "06":
		return Channel{Kind: ChannelBgaPoor}, true
	case "07":
		return Channel{Kind: ChannelBgaLayer}, true
	case "09":
		return Channel{Kind: ChannelStop}, true
	case "SC", "sc":
		return Channel{Kind: ChannelScroll}, true
	case "SP", "sp":
		return Channel{Kind: ChannelSpeed}, true
	// Implementation decisions for channels spec.md leaves unenumerated
	// (documented in DESIGN.md): ARGB/opacity overlays, option changes,
	// judge/ExRank changes, text display, and BGM/key volume each need a
	// 2-char code; these follow common real-world BMS channel conventions.
	case "A6":
		return Channel{Kind: ChannelChangeOption}, true
	case "A0":
		return Channel{Kind: ChannelJudge}, true
	case "99":
		return Channel{Kind: ChannelText}, true
	case "A1":
		return Channel{Kind: ChannelBgaOpacity}, true
	case "A2":
		return Channel{Kind: ChannelBgaArgb}, true
	case "A8":
		return Channel{Kind: ChannelBgmVolume}, true
	case "A9":
		return Channel{Kind: ChannelKeyVolume}, true
	default:
		return Channel{}, false
	}
}

func noteKindAndSide(kindChar byte) (chartmodel.NoteKind, chartmodel.Side, bool) {
	switch kindChar {
	case '1':
		return chartmodel.NoteVisible, chartmodel.Side1P, true
	case '2':
		return chartmodel.NoteVisible, chartmodel.Side2P, true
	case '3':
		return chartmodel.NoteInvisible, chartmodel.Side1P, true
	case '4':
		return chartmodel.NoteInvisible, chartmodel.Side2P, true
	case '5':
		return chartmodel.NoteLong, chartmodel.Side1P, true
	case '6':
		return chartmodel.NoteLong, chartmodel.Side2P, true
	case 'D', 'd':
		return chartmodel.NoteLandmine, chartmodel.Side1P, true
	case 'E', 'e':
		return chartmodel.NoteLandmine, chartmodel.Side2P, true
	default:
		return 0, 0, false
	}
}

func keyBeat(k byte) (int, bool) {
	switch k {
	case '1', '2', '3', '4', '5':
		return int(k - '0'), true
	case '6':
		return 6, true // scratch
	case '7':
		return 7, true // free zone
	case '8':
		return 8, true
	case '9':
		return 9, true
	default:
		return 0, false
	}
}

// ReadChannelBeat reads BMS channel codes for Beat 5K/7K/10K/14K layouts.
func ReadChannelBeat(code string) (Channel, bool) {
	if ch, ok := readGeneral(code); ok {
		return ch, true
	}
	if len(code) != 2 {
		return Channel{}, false
	}
	kind, side, ok := noteKindAndSide(code[0])
	if !ok {
		return Channel{}, false
	}
	key, ok := keyBeat(code[1])
	if !ok {
		return Channel{}, false
	}
	return Channel{Kind: ChannelNote, Note: NoteChannel{Kind: kind, Side: side, Key: key}}, true
}

func keyPmsBmeType(k byte) (int, bool) {
	switch k {
	case '1', '2', '3', '4', '5':
		return int(k - '0'), true
	case '6':
		return 8, true
	case '7':
		return 9, true
	case '8':
		return 6, true
	case '9':
		return 7, true
	default:
		return 0, false
	}
}

// ReadChannelPMSBMEType reads channel codes for the PMS-BME-type layout.
func ReadChannelPMSBMEType(code string) (Channel, bool) {
	if ch, ok := readGeneral(code); ok {
		return ch, true
	}
	if len(code) != 2 {
		return Channel{}, false
	}
	kind, side, ok := noteKindAndSide(code[0])
	if !ok {
		return Channel{}, false
	}
	key, ok := keyPmsBmeType(code[1])
	if !ok {
		return Channel{}, false
	}
	return Channel{Kind: ChannelNote, Note: NoteChannel{Kind: kind, Side: side, Key: key}}, true
}

// ReadChannelPMS reads channel codes for the plain PMS layout, which folds
// both players' BME-type keys onto a single 9-key side-1 layout.
func ReadChannelPMS(code string) (Channel, bool) {
	if ch, ok := readGeneral(code); ok {
		return ch, true
	}
	if len(code) != 2 {
		return Channel{}, false
	}
	kind, side, ok := noteKindAndSide(code[0])
	if !ok {
		return Channel{}, false
	}
	bmeKey, ok := keyPmsBmeType(code[1])
	if !ok {
		return Channel{}, false
	}
	var key int
	switch {
	case side == chartmodel.Side1P && bmeKey >= 1 && bmeKey <= 5:
		key = bmeKey
	case side == chartmodel.Side2P && bmeKey == 2:
		key = 6
	case side == chartmodel.Side2P && bmeKey == 3:
		key = 7
	case side == chartmodel.Side2P && bmeKey == 4:
		key = 8
	case side == chartmodel.Side2P && bmeKey == 5:
		key = 9
	default:
		return Channel{}, false
	}
	return Channel{Kind: ChannelNote, Note: NoteChannel{Kind: kind, Side: chartmodel.Side1P, Key: key}}, true
}

// DefaultChannelMappers is the chain order spec.md §4.1 names: Beat
// 5K/7K/10K/14K, PMS-BME-type, PMS.
func DefaultChannelMappers() []ChannelMapper {
	return []ChannelMapper{ReadChannelBeat, ReadChannelPMSBMEType, ReadChannelPMS}
}

// LookupChannel tries each mapper in order and returns the first match.
func LookupChannel(code string, mappers []ChannelMapper) (Channel, bool) {
	for _, m := range mappers {
		if ch, ok := m(code); ok {
			return ch, true
		}
	}
	return Channel{}, false
}
