package kiwi

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// Capability identifies one optional engine entry point. Engine builds differ
// in which entry points they export, so every optional call site checks the
// capability set and fails with an UnsupportedError instead of calling
// through a missing symbol.
type Capability uint

const (
	CapAnalyzeMany Capability = iota
	CapSplitSentences
	CapJoin
	CapTagNames
	CapGlobalConfig
	CapOptions
	numCapabilities
)

var capabilityNames = [...]string{
	CapAnalyzeMany:    "analyze_many",
	CapSplitSentences: "split_sentences",
	CapJoin:           "join",
	CapTagNames:       "tag_names",
	CapGlobalConfig:   "global_config",
	CapOptions:        "options",
}

func (c Capability) String() string {
	if int(c) < len(capabilityNames) {
		return capabilityNames[c]
	}
	return "unknown"
}

// Capabilities is the feature set resolved once when an engine build is
// loaded. The zero value supports nothing.
type Capabilities struct {
	set *bitset.BitSet
}

// NewCapabilities builds a capability set from the given features.
func NewCapabilities(caps ...Capability) Capabilities {
	set := bitset.New(uint(numCapabilities))
	for _, c := range caps {
		set.Set(uint(c))
	}
	return Capabilities{set: set}
}

// AllCapabilities returns a set with every optional entry point present.
func AllCapabilities() Capabilities {
	all := make([]Capability, 0, numCapabilities)
	for c := Capability(0); c < numCapabilities; c++ {
		all = append(all, c)
	}
	return NewCapabilities(all...)
}

// Has reports whether the feature is present.
func (c Capabilities) Has(feature Capability) bool {
	return c.set != nil && c.set.Test(uint(feature))
}

// EngineOptions carries per-call analysis options across the engine boundary.
type EngineOptions struct {
	MatchOptions    MatchOptions
	OpenEnding      bool
	AllowedDialects Dialect
	DialectCost     float32
	// Blocklist lists morphemes excluded from analysis, or nil.
	Blocklist []MorphPair
	// Pretokenized fixes the analysis of given spans, or nil.
	Pretokenized []PretokenizedSpan
}

// Engine is the native morphological-analysis engine behind this package.
// It is an opaque collaborator: it accepts text plus options and returns
// scored token sequences. Implementations are engine bindings; this package
// only adds caching and text reconstruction on top.
//
// An Engine is owned by exactly one Kiwi instance and is not safe for
// concurrent use. Offsets in returned tokens and boundaries are character
// indices.
type Engine interface {
	// Analyze returns up to topN ranked candidates for one text.
	Analyze(text string, topN int, opts EngineOptions) ([]AnalysisCandidate, error)
	// AnalyzeMany is the native batched form of Analyze. A failure for any
	// input fails the whole batch. Optional (CapAnalyzeMany).
	AnalyzeMany(texts []string, topN int, opts EngineOptions) ([][]AnalysisCandidate, error)
	// SplitSentences returns sentence boundaries without token detail.
	// Optional (CapSplitSentences).
	SplitSentences(text string, match MatchOptions) ([]SentenceBoundary, error)
	// Join renders a morpheme sequence back into surface text.
	// Optional (CapJoin).
	Join(morphs []MorphPair, lmSearch bool) (string, error)
	// TagName resolves a numeric tag id to its string label.
	// Optional (CapTagNames).
	TagName(id uint8) (string, error)
	// GlobalConfig and SetGlobalConfig read and write the engine's global
	// tuning knobs. Optional (CapGlobalConfig).
	GlobalConfig() (GlobalConfig, error)
	SetGlobalConfig(config GlobalConfig) error
	// Option accessors for integer and float tuning knobs.
	// Optional (CapOptions).
	Option(id OptionID) (int, error)
	SetOption(id OptionID, value int) error
	OptionF(id OptionID) (float32, error)
	SetOptionF(id OptionID, value float32) error
	// Close releases the engine instance.
	Close() error
}

// Backend is one loaded engine build. It produces Engine instances and
// reports the build's version and capability set.
type Backend interface {
	Version() string
	Capabilities() Capabilities
	NewEngine(config BuilderConfig) (Engine, error)
	Close() error
}

// buildMu serializes engine construction and teardown process-wide. The
// engine's global init/teardown state is not thread-safe; analysis calls on
// constructed instances are, and are never serialized here.
var buildMu sync.Mutex

// Library is the shared owner of a loaded engine build. Builders and analyzer
// instances hold references; the backend is closed when the last reference is
// released.
type Library struct {
	mu      sync.Mutex
	backend Backend
	refs    int
}

// OpenLibrary wraps a backend in a reference-counted Library. The caller
// holds one reference and must Close it.
func OpenLibrary(backend Backend) *Library {
	return &Library{backend: backend, refs: 1}
}

// Version reports the loaded engine build's version string.
func (l *Library) Version() string {
	return l.backend.Version()
}

// Supports reports whether the loaded build exports the given entry point.
func (l *Library) Supports(feature Capability) bool {
	return l.backend.Capabilities().Has(feature)
}

// Builder returns a builder holding its own reference to the library.
func (l *Library) Builder(config BuilderConfig) *Builder {
	l.retain()
	return &Builder{
		library: l,
		config:  config,
		dict:    NewUserDictionary(),
	}
}

// Close releases the caller's reference.
func (l *Library) Close() error {
	return l.release()
}

func (l *Library) retain() {
	l.mu.Lock()
	l.refs++
	l.mu.Unlock()
}

func (l *Library) release() error {
	l.mu.Lock()
	l.refs--
	last := l.refs == 0
	l.mu.Unlock()
	if !last {
		return nil
	}
	buildMu.Lock()
	defer buildMu.Unlock()
	return l.backend.Close()
}

// Builder accumulates user dictionary entries and construction options, then
// builds an analyzer instance.
type Builder struct {
	library *Library
	config  BuilderConfig
	dict    *UserDictionary
	closed  bool
}

// AddUserWord adds one dictionary entry. Duplicate (form, tag) pairs are
// ignored; the return value reports whether the entry was new.
func (b *Builder) AddUserWord(form, tag string, score float32) bool {
	return b.dict.Add(UserWord{Form: form, Tag: tag, Score: score})
}

// AddUserWords adds multiple dictionary entries, skipping duplicates.
func (b *Builder) AddUserWords(words ...UserWord) int {
	added := 0
	for _, word := range words {
		if b.dict.Add(word) {
			added++
		}
	}
	return added
}

// LoadUserDictionary reads a TSV dictionary file and adds its entries.
// Returns the number of entries that were new.
func (b *Builder) LoadUserDictionary(path string) (int, error) {
	dict, err := LoadUserDictionary(path)
	if err != nil {
		return 0, err
	}
	return b.AddUserWords(dict.Words()...), nil
}

// Build constructs the analyzer. The native construction call is serialized
// process-wide; analysis calls on the result are not.
func (b *Builder) Build() (*Kiwi, error) {
	config := b.config
	config.UserWords = append(cloneUserWords(config.UserWords), b.dict.Words()...)

	buildMu.Lock()
	engine, err := b.library.backend.NewEngine(config)
	buildMu.Unlock()
	if err != nil {
		return nil, err
	}

	b.library.retain()
	return newKiwi(b.library, engine)
}

// Close releases the builder's library reference. The builder must not be
// used afterwards.
func (b *Builder) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.library.release()
}

func cloneUserWords(words []UserWord) []UserWord {
	if words == nil {
		return nil
	}
	out := make([]UserWord, len(words))
	copy(out, words)
	return out
}
