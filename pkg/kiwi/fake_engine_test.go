package kiwi

import (
	"testing"
	"unicode/utf8"
)

// fakeEngine is a scripted Engine used to test the caching and
// reconstruction layers without a native build. Analysis probabilities react
// to SpacePenalty so configuration changes have an observable effect.
type fakeEngine struct {
	caps      Capabilities
	analyses  map[string][]AnalysisCandidate
	scores    map[string]float32
	config    GlobalConfig
	intOpts   map[OptionID]int
	floatOpts map[OptionID]float32

	userWords []UserWord
	lastText  string
	lastOpts  EngineOptions
	failText  string

	analyzeCalls     int
	analyzeManyCalls int
	splitCalls       int
	joinCalls        int
	closed           bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		caps:      AllCapabilities(),
		analyses:  make(map[string][]AnalysisCandidate),
		scores:    make(map[string]float32),
		intOpts:   make(map[OptionID]int),
		floatOpts: make(map[OptionID]float32),
		config: GlobalConfig{
			IntegrateAllomorph: true,
			CutoffThreshold:    8,
			MaxUnkFormSize:     6,
		},
	}
}

// setTokens scripts the top-1 analysis for a text with base probability -10.
func (e *fakeEngine) setTokens(text string, tokens ...Token) {
	e.analyses[text] = []AnalysisCandidate{{Probability: -10, Tokens: tokens}}
}

func (e *fakeEngine) analyzeOne(text string, topN int) []AnalysisCandidate {
	var candidates []AnalysisCandidate
	if scripted, ok := e.analyses[text]; ok {
		candidates = cloneCandidates(scripted)
	} else {
		length := utf8.RuneCountInString(text)
		base, ok := e.scores[text]
		if !ok {
			base = -float32(length)
		}
		candidates = []AnalysisCandidate{{
			Probability: base,
			Tokens: []Token{{
				Form:        text,
				Tag:         "NNG",
				Position:    0,
				Length:      length,
				PairedToken: -1,
			}},
		}}
	}
	for i := range candidates {
		candidates[i].Probability -= e.config.SpacePenalty
	}
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}

func (e *fakeEngine) Analyze(text string, topN int, opts EngineOptions) ([]AnalysisCandidate, error) {
	e.analyzeCalls++
	e.lastText = text
	e.lastOpts = opts
	if text == e.failText && e.failText != "" {
		return nil, &EngineError{Op: "analyze", Message: "scripted failure"}
	}
	return e.analyzeOne(text, topN), nil
}

func (e *fakeEngine) AnalyzeMany(texts []string, topN int, opts EngineOptions) ([][]AnalysisCandidate, error) {
	e.analyzeManyCalls++
	e.lastOpts = opts
	out := make([][]AnalysisCandidate, len(texts))
	for i, text := range texts {
		if text == e.failText && e.failText != "" {
			return nil, &EngineError{Op: "analyze_many", Message: "scripted failure"}
		}
		out[i] = e.analyzeOne(text, topN)
	}
	return out, nil
}

func (e *fakeEngine) SplitSentences(text string, match MatchOptions) ([]SentenceBoundary, error) {
	e.splitCalls++
	if text == "" {
		return nil, nil
	}
	return []SentenceBoundary{{Begin: 0, End: utf8.RuneCountInString(text)}}, nil
}

func (e *fakeEngine) Join(morphs []MorphPair, lmSearch bool) (string, error) {
	e.joinCalls++
	joined := ""
	for _, morph := range morphs {
		joined += morph.Form
	}
	return joined, nil
}

var fakeTagNames = map[uint8]string{
	0: "NNG",
	1: "NNP",
	2: "NNB",
	3: "VV",
	4: "JKO",
}

func (e *fakeEngine) TagName(id uint8) (string, error) {
	name, ok := fakeTagNames[id]
	if !ok {
		return "", &EngineError{Op: "tag_name", Message: "unknown tag id"}
	}
	return name, nil
}

func (e *fakeEngine) GlobalConfig() (GlobalConfig, error) {
	return e.config, nil
}

func (e *fakeEngine) SetGlobalConfig(config GlobalConfig) error {
	e.config = config
	return nil
}

func (e *fakeEngine) Option(id OptionID) (int, error) {
	return e.intOpts[id], nil
}

func (e *fakeEngine) SetOption(id OptionID, value int) error {
	e.intOpts[id] = value
	return nil
}

func (e *fakeEngine) OptionF(id OptionID) (float32, error) {
	return e.floatOpts[id], nil
}

func (e *fakeEngine) SetOptionF(id OptionID, value float32) error {
	e.floatOpts[id] = value
	return nil
}

func (e *fakeEngine) Close() error {
	e.closed = true
	return nil
}

type fakeBackend struct {
	engine         *fakeEngine
	newEngineCalls int
	closed         bool
}

func (b *fakeBackend) Version() string {
	return "0.21.0-test"
}

func (b *fakeBackend) Capabilities() Capabilities {
	return b.engine.caps
}

func (b *fakeBackend) NewEngine(config BuilderConfig) (Engine, error) {
	b.newEngineCalls++
	b.engine.userWords = config.UserWords
	return b.engine, nil
}

func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}

func newTestKiwi(t *testing.T) (*Kiwi, *fakeEngine) {
	t.Helper()
	engine := newFakeEngine()
	k, err := New(&fakeBackend{engine: engine}, Config{Builder: DefaultBuilderConfig()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { k.Close() })
	return k, engine
}

// capabilitiesWithout returns the full capability set minus the given ones.
func capabilitiesWithout(missing ...Capability) Capabilities {
	var caps []Capability
	for c := Capability(0); c < numCapabilities; c++ {
		skip := false
		for _, m := range missing {
			if c == m {
				skip = true
				break
			}
		}
		if !skip {
			caps = append(caps, c)
		}
	}
	return NewCapabilities(caps...)
}
