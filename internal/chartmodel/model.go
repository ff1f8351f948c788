// Package chartmodel holds the format-independent, language-neutral chart
// representation (component G of spec.md §2): identifiers, time
// coordinates, exact decimals, and the aggregate model both the BMS parser
// (internal/bmsparse) and the BMSON validator (internal/bmson) populate.
//
// A Model is created empty, mutated only during one parse pass, then
// treated as read-only (spec.md §3 "Lifecycles"). Nothing in this package
// enforces that after the fact; callers honor it by convention, the same
// way the teacher's corelx.Program is built once by the parser and read
// only by codegen afterward.
package chartmodel

// Difficulty is the 1-5 scale from spec.md §3 "Metadata".
type Difficulty int

const (
	DifficultyUnspecified Difficulty = 0
	DifficultyBeginner    Difficulty = 1
	DifficultyNormal      Difficulty = 2
	DifficultyHyper       Difficulty = 3
	DifficultyAnother     Difficulty = 4
	DifficultyInsane      Difficulty = 5
)

// Rank is the judge window preset from spec.md §3 "Judge aggregate".
type Rank struct {
	VeryHard bool
	Hard     bool
	Normal   bool
	Easy     bool
	OtherInt *int
}

// MusicInfo holds the optional descriptive fields from spec.md §3.
type MusicInfo struct {
	Title        string
	Subtitle     string
	Artist       string
	SubArtist    string
	Genre        string
	Maker        string
	PreviewMusic string
}

// Metadata holds the parse-configuration-adjacent fields from spec.md §3.
type Metadata struct {
	PlayLevel             int
	Difficulty            Difficulty
	Email                 string
	URL                   string
	CaseSensitiveObjectID bool
	WavPathRoot           string
	OctaveMode            bool
}

// NoteKind distinguishes a plain visible note from one half of a long note.
type NoteKind int

const (
	NoteVisible NoteKind = iota
	NoteInvisible
	NoteLong
	NoteLandmine
)

// Side is the player side a note belongs to (BMS 1P/2P).
type Side int

const (
	Side1P Side = iota
	Side2P
)

// Note is one WAV-triggering object at a score time, keyed by (side, key).
type Note struct {
	Time  ScoreTime
	Side  Side
	Key   int
	Kind  NoteKind
	WavID ObjectID
	// Continue marks a BMSON-style "hold through" long note (c == true).
	Continue bool
}

// BPMAggregate holds spec.md §3's "BPM aggregate".
type BPMAggregate struct {
	InitialBPM *Decimal
	Defs       *IDMap[*Decimal]
	Changes    *TimeMap[BPMChange]
	RawU8      *TimeMap[*Decimal] // "raw U8" BPM channel: time -> direct value
}

type BPMChange struct {
	DefID ObjectID
	Value *Decimal
}

func NewBPMAggregate() *BPMAggregate {
	return &BPMAggregate{
		Defs:    NewIDMap[*Decimal](),
		Changes: NewTimeMap[BPMChange](),
		RawU8:   NewTimeMap[*Decimal](),
	}
}

// StopAggregate holds spec.md §3's "Stop aggregate".
type StopAggregate struct {
	Defs   *IDMap[*Decimal]
	Events *TimeMap[*Decimal]
}

func NewStopAggregate() *StopAggregate {
	return &StopAggregate{Defs: NewIDMap[*Decimal](), Events: NewTimeMap[*Decimal]()}
}

// FactorAggregate holds scroll/speed aggregates, which share shape.
type FactorAggregate struct {
	Defs    *IDMap[*Decimal]
	Changes *TimeMap[FactorChange]
}

type FactorChange struct {
	DefID ObjectID
	Value *Decimal
}

func NewFactorAggregate() *FactorAggregate {
	return &FactorAggregate{Defs: NewIDMap[*Decimal](), Changes: NewTimeMap[FactorChange]()}
}

// SectionLengthAggregate maps track -> length (default 1), spec.md §3.
type SectionLengthAggregate struct {
	Lengths map[int64]*Decimal
}

func NewSectionLengthAggregate() *SectionLengthAggregate {
	return &SectionLengthAggregate{Lengths: make(map[int64]*Decimal)}
}

// Length returns the configured length of track, or 1 if unset.
func (s *SectionLengthAggregate) Length(track int64) *Decimal {
	if v, ok := s.Lengths[track]; ok {
		return v
	}
	return NewDecimalInt(1)
}

// BgmEvent is a background sound trigger (spec.md §4.4's Bgm channel):
// unlike notes, several may coexist at the same time with no duplication
// prompt, so they are kept as a plain append-only list rather than a TimeMap.
type BgmEvent struct {
	Time  ScoreTime
	WavID ObjectID
}

// ExWavDescriptor is an extended WAV definition's pan/volume/frequency
// adjustment (spec.md §4.3's ExWav def kind).
type ExWavDescriptor struct {
	Pan       int64 // [-10000, 10000]
	Volume    int64 // [-10000, 0]
	Frequency uint64
	HasFreq   bool
}

// WAVAggregate holds spec.md §3's "WAV aggregate".
type WAVAggregate struct {
	Paths     *IDMap[string]
	ExWavDefs *IDMap[ExWavDescriptor]
	Notes     []Note     // parse order; chartmodel.SortNotes gives the total order
	Bgm       []BgmEvent // order of appearance, multiple per time allowed
}

func NewWAVAggregate() *WAVAggregate {
	return &WAVAggregate{Paths: NewIDMap[string](), ExWavDefs: NewIDMap[ExWavDescriptor]()}
}

// BMPDescriptor is a BGA/BMP image reference with optional transparent color.
type BMPDescriptor struct {
	Path              string
	TransparentARGB   uint32
	HasTransparentKey bool
}

type BGALayer int

const (
	BGALayerBase BGALayer = iota
	BGALayerOverlay
	BGALayerOverlay2
	BGALayerMiss
)

type BGAAggregate struct {
	Defs        *IDMap[BMPDescriptor]
	Layers      map[BGALayer]*TimeMap[ObjectID]
	Opacity     map[BGALayer]*TimeMap[uint8]
	ARGB        map[BGALayer]*TimeMap[uint32]
	PoorBGAMode bool
}

func NewBGAAggregate() *BGAAggregate {
	return &BGAAggregate{
		Defs:    NewIDMap[BMPDescriptor](),
		Layers:  make(map[BGALayer]*TimeMap[ObjectID]),
		Opacity: make(map[BGALayer]*TimeMap[uint8]),
		ARGB:    make(map[BGALayer]*TimeMap[uint32]),
	}
}

func (a *BGAAggregate) layerChanges(l BGALayer) *TimeMap[ObjectID] {
	m, ok := a.Layers[l]
	if !ok {
		m = NewTimeMap[ObjectID]()
		a.Layers[l] = m
	}
	return m
}

// LayerChanges returns (creating if absent) the ordered id changes for a layer.
func (a *BGAAggregate) LayerChanges(l BGALayer) *TimeMap[ObjectID] { return a.layerChanges(l) }

// JudgeAggregate holds spec.md §3's "Judge aggregate".
type JudgeAggregate struct {
	Rank        *Rank
	ExRankDefs  *IDMap[int]
	Changes     *TimeMap[JudgeChange]
	TotalGauge  *Decimal
}

type JudgeChange struct {
	DefID ObjectID
	Level int
}

func NewJudgeAggregate() *JudgeAggregate {
	return &JudgeAggregate{ExRankDefs: NewIDMap[int](), Changes: NewTimeMap[JudgeChange]()}
}

// TextAggregate holds spec.md §3's "Text aggregate".
type TextAggregate struct {
	Defs   *IDMap[string]
	Events *TimeMap[ObjectID]
}

func NewTextAggregate() *TextAggregate {
	return &TextAggregate{Defs: NewIDMap[string](), Events: NewTimeMap[ObjectID]()}
}

// VolumeAggregate holds spec.md §3's "Volume aggregate".
type VolumeAggregate struct {
	Master     uint8
	BGMChanges *TimeMap[uint8]
	KeyChanges *TimeMap[uint8]
}

func NewVolumeAggregate() *VolumeAggregate {
	return &VolumeAggregate{Master: 100, BGMChanges: NewTimeMap[uint8](), KeyChanges: NewTimeMap[uint8]()}
}

// OptionAggregate holds spec.md §3's "Option aggregate".
type OptionAggregate struct {
	Options       []string
	ChangeDefs    *IDMap[string]
	Changes       *TimeMap[ObjectID]
}

func NewOptionAggregate() *OptionAggregate {
	return &OptionAggregate{ChangeDefs: NewIDMap[string](), Changes: NewTimeMap[ObjectID]()}
}

// WavCmdParam is the adjustment type a #WAVCMD event selects (spec.md §9's
// minor-command family).
type WavCmdParam int

const (
	WavCmdPitch WavCmdParam = iota
	WavCmdVolume
	WavCmdTime
)

// StpEvent is a bemaniaDX-style #STP sequence: an extra stop at a time
// given directly in milliseconds, independent of the Stop aggregate's
// def/event split.
type StpEvent struct {
	Time     ScoreTime
	Duration int64 // milliseconds
}

// WavCmdEvent adjusts pitch/volume/time for a WAV def (MacBeat #WAVCMD).
type WavCmdEvent struct {
	Param   WavCmdParam
	WavID   ObjectID
	Value   uint32
}

// SwBgaEvent describes a key-bound BGA animation (#SWBGA).
type SwBgaEvent struct {
	FrameRateMS uint32
	TotalTimeMS uint32
	Line        uint8
	Loop        bool
	ARGB        uint32
	Pattern     string
}

// ExtChrEvent replaces a UI sprite's source region (BM98 #ExtChr).
type ExtChrEvent struct {
	SpriteNum int
	BmpNum    int
	StartX, StartY int
	EndX, EndY     int
	OffsetX, OffsetY *int
	AbsX, AbsY       *int
}

// MinorAggregate holds the obsolete command family spec.md §9 gates
// behind a feature flag: STP, WAVCMD, SWBGA, ExtChr.
type MinorAggregate struct {
	Stp     []StpEvent
	WavCmd  []WavCmdEvent
	SwBga   []SwBgaEvent
	ExtChr  []ExtChrEvent
}

func NewMinorAggregate() *MinorAggregate { return &MinorAggregate{} }

// Model is the full chart model aggregate (spec.md §3 "Chart model").
type Model struct {
	MusicInfo     MusicInfo
	Metadata      Metadata
	BPM           *BPMAggregate
	Stop          *StopAggregate
	Scroll        *FactorAggregate
	Speed         *FactorAggregate
	SectionLength *SectionLengthAggregate
	WAV           *WAVAggregate
	BGA           *BGAAggregate
	Judge         *JudgeAggregate
	Text          *TextAggregate
	Volume        *VolumeAggregate
	Option        *OptionAggregate
	Minor         *MinorAggregate

	// ControlFlow is not filled in by the BMS parser; the unparse path
	// (internal/unparse) reads the Random/Switch structure from
	// bmsparse.ParseOutput.Source instead.
	ControlFlow any

	// NotACommand preserves opaque non-command source lines for round trip;
	// populated only for BMS models (BMSON has no textual lines to preserve).
	NotACommand []NotACommandLine
}

// NotACommandLine is a verbatim preserved non-command source line.
type NotACommandLine struct {
	Position int // index among the preserved non-command lines, in source order
	Text     string
}

// NewModel returns an empty chart model ready for one parse pass.
func NewModel() *Model {
	return &Model{
		BPM:           NewBPMAggregate(),
		Stop:          NewStopAggregate(),
		Scroll:        NewFactorAggregate(),
		Speed:         NewFactorAggregate(),
		SectionLength: NewSectionLengthAggregate(),
		WAV:           NewWAVAggregate(),
		BGA:           NewBGAAggregate(),
		Judge:         NewJudgeAggregate(),
		Text:          NewTextAggregate(),
		Volume:        NewVolumeAggregate(),
		Option:        NewOptionAggregate(),
		Minor:         NewMinorAggregate(),
	}
}
