package kiwi

import (
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/unicode/norm"
)

type reWordRule struct {
	pattern *regexp.Regexp
	tag     string
}

type splitKey struct {
	options       AnalyzeOptions
	returnTokens  bool
	returnSubSent bool
}

type gluePair struct {
	left  string
	right string
}

type glueResult struct {
	text   string
	spaces []bool
}

// Kiwi is an analyzer instance: one exclusively-owned engine handle plus the
// result caches and reconstruction algorithms built on top of it.
//
// A Kiwi is single-threaded: all methods must be called from the goroutine
// that owns the instance. Independent instances may run concurrently.
type Kiwi struct {
	library *Library
	engine  Engine
	caps    Capabilities

	defaultOptions AnalyzeOptions
	normalizeInput bool
	reWordRules    []reWordRule

	// tagNames caches tag_name lookups for all one-byte tag ids, resolved
	// once at construction.
	tagNames *[256]string

	tokenizeCache *recencyCache[AnalyzeOptions, []Token]
	analyzeCache  *recencyCache[AnalyzeOptions, []AnalysisCandidate]
	splitCache    *recencyCache[splitKey, []Sentence]
	glueCache     *recencyCache[string, glueResult]
	joinCache     *recencyCache[bool, string]
	gluePairCache *lru.Cache[gluePair, bool]

	closed bool
}

// New constructs an analyzer from a backend in one step. For finer control
// over construction (shared libraries, incremental dictionary loading), use
// OpenLibrary and Builder directly.
func New(backend Backend, config Config) (*Kiwi, error) {
	library := OpenLibrary(backend)
	defer library.Close()

	builder := library.Builder(config.Builder)
	defer builder.Close()
	builder.AddUserWords(config.UserWords...)

	k, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if config.DefaultAnalyzeOptions != (AnalyzeOptions{}) {
		k.defaultOptions = config.DefaultAnalyzeOptions
	}
	k.normalizeInput = config.NormalizeInput
	return k, nil
}

func newKiwi(library *Library, engine Engine) (*Kiwi, error) {
	pairCache, err := lru.New[gluePair, bool](gluePairCacheCapacity)
	if err != nil {
		return nil, err
	}

	k := &Kiwi{
		library:        library,
		engine:         engine,
		caps:           library.backend.Capabilities(),
		defaultOptions: DefaultAnalyzeOptions(),
		tokenizeCache:  newRecencyCache[AnalyzeOptions, []Token](tokenizeCacheCapacity),
		analyzeCache:   newRecencyCache[AnalyzeOptions, []AnalysisCandidate](analyzeCacheCapacity),
		splitCache:     newRecencyCache[splitKey, []Sentence](splitCacheCapacity),
		glueCache:      newRecencyCache[string, glueResult](glueCacheCapacity),
		joinCache:      newRecencyCache[bool, string](joinCacheCapacity),
		gluePairCache:  pairCache,
	}

	if k.caps.Has(CapTagNames) {
		names := new([256]string)
		for id := 0; id < 256; id++ {
			// Sparse ids are normal; failed lookups stay empty.
			if name, err := engine.TagName(uint8(id)); err == nil {
				names[id] = name
			}
		}
		k.tagNames = names
	}

	return k, nil
}

// Close releases the engine instance and the library reference. The caches
// are dropped with the instance.
func (k *Kiwi) Close() error {
	if k.closed {
		return nil
	}
	k.closed = true

	buildMu.Lock()
	err := k.engine.Close()
	buildMu.Unlock()

	if releaseErr := k.library.release(); err == nil {
		err = releaseErr
	}
	return err
}

// LibraryVersion reports the loaded engine build's version.
func (k *Kiwi) LibraryVersion() string {
	return k.library.Version()
}

// Supports reports whether the loaded engine build exports the entry point.
func (k *Kiwi) Supports(feature Capability) bool {
	return k.caps.Has(feature)
}

func (k *Kiwi) require(feature Capability) error {
	if !k.caps.Has(feature) {
		return &UnsupportedError{Capability: feature.String()}
	}
	return nil
}

// TagName resolves a numeric tag id using the table cached at construction.
func (k *Kiwi) TagName(id uint8) (string, error) {
	if k.tagNames == nil {
		return "", &UnsupportedError{Capability: CapTagNames.String()}
	}
	return k.tagNames[id], nil
}

// invalidateAnalysisCaches is the single choke point run by every mutator of
// analyzer configuration. The join cache is deliberately exempt: join output
// depends only on the explicit morph sequence and the lm-search flag, not on
// the tuning knobs that invalidate the other caches.
func (k *Kiwi) invalidateAnalysisCaches() {
	k.tokenizeCache.clear()
	k.analyzeCache.clear()
	k.splitCache.clear()
	k.glueCache.clear()
	k.gluePairCache.Purge()
}

// prepareInput applies the optional NFC composition step. It runs before any
// cache lookup so cached entries are keyed by the text the engine saw.
func (k *Kiwi) prepareInput(text string) string {
	if !k.normalizeInput {
		return text
	}
	return norm.NFC.String(text)
}

// DefaultAnalyzeOptions returns the options applied by convenience APIs.
func (k *Kiwi) DefaultAnalyzeOptions() AnalyzeOptions {
	return k.defaultOptions
}

// SetDefaultAnalyzeOptions replaces the default options.
func (k *Kiwi) SetDefaultAnalyzeOptions(options AnalyzeOptions) {
	k.defaultOptions = options
	k.invalidateAnalysisCaches()
}

// NormalizeInput reports whether NFC composition runs before analysis.
func (k *Kiwi) NormalizeInput() bool {
	return k.normalizeInput
}

// SetNormalizeInput toggles NFC composition of input text.
func (k *Kiwi) SetNormalizeInput(enabled bool) {
	if k.normalizeInput == enabled {
		return
	}
	k.normalizeInput = enabled
	k.invalidateAnalysisCaches()
}

// AddReWord registers a regex word rule: every non-overlapping match of
// pattern is pinned to the given tag during analysis. Rules apply in
// registration order; earlier matches win overlaps.
func (k *Kiwi) AddReWord(pattern, tag string) error {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return invalidArgf("bad pattern for AddReWord: %v", err)
	}
	k.reWordRules = append(k.reWordRules, reWordRule{pattern: compiled, tag: tag})
	k.invalidateAnalysisCaches()
	return nil
}

// ClearReWords removes all regex word rules.
func (k *Kiwi) ClearReWords() {
	k.reWordRules = nil
	k.invalidateAnalysisCaches()
}

// GlobalConfig reads the engine's global tuning knobs.
func (k *Kiwi) GlobalConfig() (GlobalConfig, error) {
	if err := k.require(CapGlobalConfig); err != nil {
		return GlobalConfig{}, err
	}
	return k.engine.GlobalConfig()
}

// SetGlobalConfig writes the engine's global tuning knobs.
func (k *Kiwi) SetGlobalConfig(config GlobalConfig) error {
	if err := k.require(CapGlobalConfig); err != nil {
		return err
	}
	if err := k.engine.SetGlobalConfig(config); err != nil {
		return err
	}
	k.invalidateAnalysisCaches()
	return nil
}

func (k *Kiwi) updateGlobalConfig(update func(*GlobalConfig)) error {
	config, err := k.GlobalConfig()
	if err != nil {
		return err
	}
	update(&config)
	return k.SetGlobalConfig(config)
}

// CutoffThreshold returns the engine's candidate cutoff threshold.
func (k *Kiwi) CutoffThreshold() (float32, error) {
	config, err := k.GlobalConfig()
	return config.CutoffThreshold, err
}

// SetCutoffThreshold sets the engine's candidate cutoff threshold.
func (k *Kiwi) SetCutoffThreshold(value float32) error {
	return k.updateGlobalConfig(func(c *GlobalConfig) { c.CutoffThreshold = value })
}

// IntegrateAllomorph returns whether allomorph variants are merged.
func (k *Kiwi) IntegrateAllomorph() (bool, error) {
	config, err := k.GlobalConfig()
	return config.IntegrateAllomorph, err
}

// SetIntegrateAllomorph toggles allomorph merging.
func (k *Kiwi) SetIntegrateAllomorph(value bool) error {
	return k.updateGlobalConfig(func(c *GlobalConfig) { c.IntegrateAllomorph = value })
}

// SpacePenalty returns the penalty for spaces in unexpected positions.
func (k *Kiwi) SpacePenalty() (float32, error) {
	config, err := k.GlobalConfig()
	return config.SpacePenalty, err
}

// SetSpacePenalty sets the penalty for spaces in unexpected positions.
func (k *Kiwi) SetSpacePenalty(value float32) error {
	return k.updateGlobalConfig(func(c *GlobalConfig) { c.SpacePenalty = value })
}

// SpaceTolerance returns the number of tolerated missing spaces.
func (k *Kiwi) SpaceTolerance() (uint32, error) {
	config, err := k.GlobalConfig()
	return config.SpaceTolerance, err
}

// SetSpaceTolerance sets the number of tolerated missing spaces.
func (k *Kiwi) SetSpaceTolerance(value uint32) error {
	return k.updateGlobalConfig(func(c *GlobalConfig) { c.SpaceTolerance = value })
}

// MaxUnkFormSize returns the maximum length of unknown forms.
func (k *Kiwi) MaxUnkFormSize() (uint32, error) {
	config, err := k.GlobalConfig()
	return config.MaxUnkFormSize, err
}

// SetMaxUnkFormSize sets the maximum length of unknown forms.
func (k *Kiwi) SetMaxUnkFormSize(value uint32) error {
	return k.updateGlobalConfig(func(c *GlobalConfig) { c.MaxUnkFormSize = value })
}

// TypoCostWeight returns the weight applied to typo correction costs.
func (k *Kiwi) TypoCostWeight() (float32, error) {
	config, err := k.GlobalConfig()
	return config.TypoCostWeight, err
}

// SetTypoCostWeight sets the weight applied to typo correction costs.
func (k *Kiwi) SetTypoCostWeight(value float32) error {
	return k.updateGlobalConfig(func(c *GlobalConfig) { c.TypoCostWeight = value })
}

// Option reads an integer tuning knob.
func (k *Kiwi) Option(id OptionID) (int, error) {
	if err := k.require(CapOptions); err != nil {
		return 0, err
	}
	return k.engine.Option(id)
}

// SetOption writes an integer tuning knob.
func (k *Kiwi) SetOption(id OptionID, value int) error {
	if err := k.require(CapOptions); err != nil {
		return err
	}
	if err := k.engine.SetOption(id, value); err != nil {
		return err
	}
	k.invalidateAnalysisCaches()
	return nil
}

// OptionF reads a float tuning knob.
func (k *Kiwi) OptionF(id OptionID) (float32, error) {
	if err := k.require(CapOptions); err != nil {
		return 0, err
	}
	return k.engine.OptionF(id)
}

// SetOptionF writes a float tuning knob.
func (k *Kiwi) SetOptionF(id OptionID, value float32) error {
	if err := k.require(CapOptions); err != nil {
		return err
	}
	if err := k.engine.SetOptionF(id, value); err != nil {
		return err
	}
	k.invalidateAnalysisCaches()
	return nil
}

// buildReWordSpans turns regex word rule matches into pretokenized spans.
// Offsets cross the engine boundary as character indices.
func (k *Kiwi) buildReWordSpans(text string) []PretokenizedSpan {
	if len(k.reWordRules) == 0 {
		return nil
	}

	type charRange struct{ begin, end int }
	var accepted []charRange
	var spans []PretokenizedSpan

	for _, rule := range k.reWordRules {
		for _, match := range rule.pattern.FindAllStringIndex(text, -1) {
			if match[0] == match[1] {
				continue
			}
			begin := byteToCharIndex(text, match[0])
			end := byteToCharIndex(text, match[1])
			overlaps := false
			for _, r := range accepted {
				if begin < r.end && r.begin < end {
					overlaps = true
					break
				}
			}
			if overlaps {
				continue
			}
			accepted = append(accepted, charRange{begin: begin, end: end})
			spans = append(spans, PretokenizedSpan{
				Begin: begin,
				End:   end,
				Tokens: []PretokenizedToken{{
					Form:  text[match[0]:match[1]],
					Tag:   rule.tag,
					Begin: 0,
					End:   end - begin,
				}},
			})
		}
	}
	return spans
}

// analyzeRaw runs one engine call with rule-generated pretokenization
// applied. It does not touch the result caches; callers decide which cache
// the result belongs to.
func (k *Kiwi) analyzeRaw(text string, options AnalyzeOptions, blocklist []MorphPair, pretokenized []PretokenizedSpan) ([]AnalysisCandidate, error) {
	if err := options.validate(); err != nil {
		return nil, err
	}
	if pretokenized != nil && len(k.reWordRules) > 0 {
		return nil, invalidArgf("explicit pretokenized input cannot be combined with AddReWord rules")
	}
	if pretokenized == nil {
		pretokenized = k.buildReWordSpans(text)
	}
	return k.engine.Analyze(text, options.TopN, EngineOptions{
		MatchOptions:    options.MatchOptions,
		OpenEnding:      options.OpenEnding,
		AllowedDialects: options.AllowedDialects,
		DialectCost:     options.DialectCost,
		Blocklist:       blocklist,
		Pretokenized:    pretokenized,
	})
}

// Analyze returns ranked candidate analyses using the default options.
func (k *Kiwi) Analyze(text string) ([]AnalysisCandidate, error) {
	return k.AnalyzeWithOptions(text, k.defaultOptions)
}

// AnalyzeTopN returns up to topN ranked candidate analyses.
func (k *Kiwi) AnalyzeTopN(text string, topN int) ([]AnalysisCandidate, error) {
	return k.AnalyzeWithOptions(text, k.defaultOptions.withTopN(topN))
}

// AnalyzeWithOptions returns ranked candidate analyses. Results for equal
// (options, text) pairs are served from a bounded cache; cached and fresh
// results are identical.
func (k *Kiwi) AnalyzeWithOptions(text string, options AnalyzeOptions) ([]AnalysisCandidate, error) {
	text = k.prepareInput(text)
	if cached, ok := k.analyzeCache.lookup(options, text); ok {
		return cloneCandidates(cached), nil
	}
	candidates, err := k.analyzeRaw(text, options, nil, nil)
	if err != nil {
		return nil, err
	}
	k.analyzeCache.insert(options, text, cloneCandidates(candidates))
	return candidates, nil
}

// AnalyzeWithBlocklist analyzes while excluding the listed morphemes.
// Calls with a blocklist bypass the result cache.
func (k *Kiwi) AnalyzeWithBlocklist(text string, options AnalyzeOptions, blocklist []MorphPair) ([]AnalysisCandidate, error) {
	return k.analyzeRaw(k.prepareInput(text), options, blocklist, nil)
}

// AnalyzeWithPretokenized analyzes with caller-fixed spans. Calls with
// explicit pretokenized input bypass the result cache.
func (k *Kiwi) AnalyzeWithPretokenized(text string, options AnalyzeOptions, pretokenized []PretokenizedSpan) ([]AnalysisCandidate, error) {
	return k.analyzeRaw(k.prepareInput(text), options, nil, pretokenized)
}

// AnalyzeMany analyzes a batch of texts through the engine's native
// multi-text entry point. A failure for any input abandons the batch;
// callers needing per-item isolation should loop over Analyze instead.
func (k *Kiwi) AnalyzeMany(texts []string, options AnalyzeOptions) ([][]AnalysisCandidate, error) {
	if err := k.require(CapAnalyzeMany); err != nil {
		return nil, err
	}
	if err := options.validate(); err != nil {
		return nil, err
	}
	prepared := make([]string, len(texts))
	for i, text := range texts {
		prepared[i] = k.prepareInput(text)
	}
	return k.engine.AnalyzeMany(prepared, options.TopN, EngineOptions{
		MatchOptions:    options.MatchOptions,
		OpenEnding:      options.OpenEnding,
		AllowedDialects: options.AllowedDialects,
		DialectCost:     options.DialectCost,
	})
}

// Tokenize returns the top-1 token sequence using the default options.
func (k *Kiwi) Tokenize(text string) ([]Token, error) {
	return k.TokenizeWithOptions(text, k.defaultOptions)
}

// TokenizeWithMatchOptions tokenizes with explicit match flags.
func (k *Kiwi) TokenizeWithMatchOptions(text string, match MatchOptions) ([]Token, error) {
	options := k.defaultOptions
	options.MatchOptions = match
	return k.TokenizeWithOptions(text, options)
}

// TokenizeWithOptions returns the top-1 token sequence. TopN is forced to 1;
// results are served from the tokenize cache when possible.
func (k *Kiwi) TokenizeWithOptions(text string, options AnalyzeOptions) ([]Token, error) {
	options.TopN = 1
	text = k.prepareInput(text)
	if cached, ok := k.tokenizeCache.lookup(options, text); ok {
		return cloneTokens(cached), nil
	}
	candidates, err := k.analyzeRaw(text, options, nil, nil)
	if err != nil {
		return nil, err
	}
	var tokens []Token
	if len(candidates) > 0 {
		tokens = candidates[0].Tokens
	}
	k.tokenizeCache.insert(options, text, cloneTokens(tokens))
	return tokens, nil
}

// TokenizeWithBlocklist tokenizes while excluding the listed morphemes,
// bypassing the tokenize cache.
func (k *Kiwi) TokenizeWithBlocklist(text string, options AnalyzeOptions, blocklist []MorphPair) ([]Token, error) {
	candidates, err := k.analyzeRaw(k.prepareInput(text), options.withTopN(1), blocklist, nil)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return candidates[0].Tokens, nil
}

// TokenizeWithPretokenized tokenizes with caller-fixed spans, bypassing the
// tokenize cache.
func (k *Kiwi) TokenizeWithPretokenized(text string, options AnalyzeOptions, pretokenized []PretokenizedSpan) ([]Token, error) {
	candidates, err := k.analyzeRaw(k.prepareInput(text), options.withTopN(1), nil, pretokenized)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return candidates[0].Tokens, nil
}

// TokenizeMany tokenizes a batch of texts through the native multi-text
// entry point.
func (k *Kiwi) TokenizeMany(texts []string) ([][]Token, error) {
	batches, err := k.AnalyzeMany(texts, k.defaultOptions.withTopN(1))
	if err != nil {
		return nil, err
	}
	out := make([][]Token, len(batches))
	for i, candidates := range batches {
		if len(candidates) > 0 {
			out[i] = candidates[0].Tokens
		}
	}
	return out, nil
}

// Join renders a morpheme sequence back into surface text. lmSearch lets the
// engine pick allomorph forms by language-model search. Results are cached
// independently of the analysis caches: join output depends only on the
// given morph sequence and flag, so configuration changes leave this cache
// intact.
func (k *Kiwi) Join(morphs []MorphPair, lmSearch bool) (string, error) {
	if err := k.require(CapJoin); err != nil {
		return "", err
	}
	encoded := encodeMorphs(morphs)
	if cached, ok := k.joinCache.lookup(lmSearch, encoded); ok {
		return cached, nil
	}
	joined, err := k.engine.Join(morphs, lmSearch)
	if err != nil {
		return "", err
	}
	k.joinCache.insert(lmSearch, encoded, joined)
	return joined, nil
}

// encodeMorphs length-prefixes every field so distinct morph sequences can
// never encode to the same key, whatever bytes the forms and tags contain.
func encodeMorphs(morphs []MorphPair) string {
	var b strings.Builder
	for _, morph := range morphs {
		b.WriteString(strconv.Itoa(len(morph.Form)))
		b.WriteByte(':')
		b.WriteString(morph.Form)
		b.WriteString(strconv.Itoa(len(morph.Tag)))
		b.WriteByte(':')
		b.WriteString(morph.Tag)
	}
	return b.String()
}
