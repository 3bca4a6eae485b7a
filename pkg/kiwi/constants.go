package kiwi

// MatchOptions is a bit mask controlling token matching behavior during analysis.
type MatchOptions int32

// Match option flags mirrored from the engine's C API.
const (
	MatchURL     MatchOptions = 1
	MatchEmail   MatchOptions = 2
	MatchHashtag MatchOptions = 4
	MatchMention MatchOptions = 8
	MatchSerial  MatchOptions = 16

	MatchNormalizeCoda  MatchOptions = 1 << 16
	MatchJoinNounPrefix MatchOptions = 1 << 17
	MatchJoinNounSuffix MatchOptions = 1 << 18
	MatchJoinVerbSuffix MatchOptions = 1 << 19
	MatchJoinAdjSuffix  MatchOptions = 1 << 20
	MatchJoinAdvSuffix  MatchOptions = 1 << 21
	MatchSplitComplex   MatchOptions = 1 << 22
	MatchZCoda          MatchOptions = 1 << 23
	MatchCompatibleJamo MatchOptions = 1 << 24
	MatchSplitSaisiot   MatchOptions = 1 << 25
	MatchMergeSaisiot   MatchOptions = 1 << 26

	// MatchJoinVSuffix joins both verb and adjective suffixes.
	MatchJoinVSuffix = MatchJoinVerbSuffix | MatchJoinAdjSuffix
	// MatchJoinAffix joins every affix class.
	MatchJoinAffix = MatchJoinNounPrefix | MatchJoinNounSuffix | MatchJoinVSuffix | MatchJoinAdvSuffix

	// MatchAll enables all pattern detectors plus z-coda handling.
	MatchAll = MatchURL | MatchEmail | MatchHashtag | MatchMention | MatchSerial | MatchZCoda
	// MatchAllWithNormalizing is MatchAll plus coda normalization.
	MatchAllWithNormalizing = MatchAll | MatchNormalizeCoda
)

// Dialect is a bit mask of dialects permitted during analysis.
type Dialect int32

// Dialect flags mirrored from the engine's C API.
const (
	DialectStandard    Dialect = 0
	DialectGyeonggi    Dialect = 1 << 0
	DialectChungcheong Dialect = 1 << 1
	DialectGangwon     Dialect = 1 << 2
	DialectGyeongsang  Dialect = 1 << 3
	DialectJeolla      Dialect = 1 << 4
	DialectJeju        Dialect = 1 << 5
	DialectHwanghae    Dialect = 1 << 6
	DialectHamgyeong   Dialect = 1 << 7
	DialectPyeongan    Dialect = 1 << 8
	DialectArchaic     Dialect = 1 << 9

	// DialectAll permits every supported dialect.
	DialectAll Dialect = (1 << 10) - 1
)

// BuildOptions is a bit mask applied while constructing an engine instance.
type BuildOptions int32

// Build option flags mirrored from the engine's C API.
const (
	BuildIntegrateAllomorph BuildOptions = 1
	BuildLoadDefaultDict    BuildOptions = 2
	BuildLoadTypoDict       BuildOptions = 4
	BuildLoadMultiDict      BuildOptions = 8
	// BuildDefault loads every bundled dictionary and integrates allomorphs.
	BuildDefault BuildOptions = 15

	BuildModelTypeDefault    BuildOptions = 0x0000
	BuildModelTypeLargest    BuildOptions = 0x0100
	BuildModelTypeKNLM       BuildOptions = 0x0200
	BuildModelTypeSBG        BuildOptions = 0x0300
	BuildModelTypeCoNg       BuildOptions = 0x0400
	BuildModelTypeCoNgGlobal BuildOptions = 0x0500
)

// OptionID identifies a runtime tuning knob for Option/SetOption calls.
type OptionID int32

// OptionNumThreads controls the engine worker thread count.
const OptionNumThreads OptionID = 0x8001
