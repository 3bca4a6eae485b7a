package kiwi

// AnalyzeOptions controls Analyze and Tokenize calls. The zero value is not
// useful; start from DefaultAnalyzeOptions.
//
// AnalyzeOptions is comparable and is used as a cache key, so it must stay
// free of slices, maps and pointers.
type AnalyzeOptions struct {
	// TopN is the number of ranked candidates to return. Must be >= 1.
	TopN int
	// MatchOptions are the pattern-matching flags for this call.
	MatchOptions MatchOptions
	// OpenEnding enables open-ended analysis mode.
	OpenEnding bool
	// AllowedDialects is the permitted dialect mask.
	AllowedDialects Dialect
	// DialectCost is the penalty applied to dialectal analyses.
	DialectCost float32
}

// DefaultAnalyzeOptions returns the options applied by the convenience APIs:
// one candidate, full matching with coda normalization, standard dialect only.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{
		TopN:            1,
		MatchOptions:    MatchAllWithNormalizing,
		OpenEnding:      false,
		AllowedDialects: DialectStandard,
		DialectCost:     3.0,
	}
}

func (o AnalyzeOptions) withTopN(topN int) AnalyzeOptions {
	o.TopN = topN
	return o
}

func (o AnalyzeOptions) validate() error {
	if o.TopN < 1 {
		return invalidArgf("AnalyzeOptions.TopN must be >= 1, got %d", o.TopN)
	}
	return nil
}

// BuilderConfig holds engine-construction options.
type BuilderConfig struct {
	// ModelPath is the model root directory. Empty lets the backend pick
	// its own default.
	ModelPath string
	// NumThreads is the worker thread count. -1 follows engine defaults.
	NumThreads int
	// BuildOptions are the engine build flags.
	BuildOptions BuildOptions
	// EnabledDialects is the dialect mask compiled into the instance.
	EnabledDialects Dialect
	// TypoCostThreshold is the cost cutoff when a typo model is loaded.
	TypoCostThreshold float32
	// UserWords are dictionary entries inserted during construction.
	UserWords []UserWord
}

// DefaultBuilderConfig returns the standard construction options.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		NumThreads:      -1,
		BuildOptions:    BuildDefault,
		EnabledDialects: DialectStandard,
	}
}

// Config is the top-level configuration consumed by New.
type Config struct {
	// Builder holds engine-construction options.
	Builder BuilderConfig
	// DefaultAnalyzeOptions are applied by convenience APIs. The zero
	// value means DefaultAnalyzeOptions().
	DefaultAnalyzeOptions AnalyzeOptions
	// NormalizeInput composes input text to NFC before analysis. The
	// engine expects composed Hangul; enable this when inputs may carry
	// decomposed jamo.
	NormalizeInput bool
	// UserWords are dictionary entries added before construction.
	UserWords []UserWord
}
