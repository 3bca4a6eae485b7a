package kiwi

// Token is a single morpheme produced by analysis.
//
// Position and Length are character indices into the analyzed text, not byte
// offsets. This holds for every offset field in this package.
type Token struct {
	// Form is the surface form of the morpheme.
	Form string
	// Tag is the part-of-speech tag string.
	Tag string
	// Position is the character-based start offset in the original text.
	Position int
	// Length is the character count, not the byte length.
	Length int
	// WordPosition is the word index inside the analyzed sentence.
	WordPosition int
	// SentPosition is the sentence index in multi-sentence output.
	SentPosition int
	// LineNumber is line metadata from the engine.
	LineNumber int
	// SubSentPosition is the clause-level index inside the sentence.
	// Zero means the token belongs to no sub-sentence.
	SubSentPosition int
	// Score is the language-model score for this token.
	Score float32
	// TypoCost is the typo correction cost applied to this token.
	TypoCost float32
	// TypoFormID identifies the typo form inside the engine.
	TypoFormID uint32
	// PairedToken is the index of a paired token (paired punctuation etc.),
	// or -1 when the token has no pair.
	PairedToken int
	// TagID is the numeric tag id, bounded to one byte by the engine.
	TagID uint8
	// SenseOrScript carries a sense id or script id depending on the tag.
	SenseOrScript uint8
	// Dialect is the dialect id for dialectal morphemes.
	Dialect uint16
}

// End returns the character offset one past the token's last character.
func (t Token) End() int {
	return t.Position + t.Length
}

// AnalysisCandidate is one ranked analysis: a probability and its token
// sequence.
type AnalysisCandidate struct {
	Probability float32
	Tokens      []Token
}

// Sentence is one sentence (or sub-sentence) produced by segmentation.
// Start and End are character offsets into the source text.
type Sentence struct {
	Text  string
	Start int
	End   int
	// Tokens holds the sentence's tokens when requested, nil otherwise.
	Tokens []Token
	// Subs holds clause-level sub-sentences when requested. Sub-sentences
	// are never nested further.
	Subs []Sentence
}

// SentenceBoundary is a character-offset span reported by the engine's
// sentence splitter.
type SentenceBoundary struct {
	Begin int
	End   int
}

// MorphPair is a (form, tag) pair consumed by Join.
type MorphPair struct {
	Form string
	Tag  string
}

// UserWord is a user dictionary entry.
type UserWord struct {
	// Form is the surface form to add.
	Form string
	// Tag is the part-of-speech tag for the form.
	Tag string
	// Score is the user score applied by the engine during ranking.
	Score float32
}

// PretokenizedToken is one pre-analyzed morpheme inside a span. Begin and End
// are character offsets relative to the span start.
type PretokenizedToken struct {
	Form  string
	Tag   string
	Begin int
	End   int
}

// PretokenizedSpan fixes the analysis of one character range of the input.
type PretokenizedSpan struct {
	Begin  int
	End    int
	Tokens []PretokenizedToken
}

// GlobalConfig holds the engine's mutable global tuning knobs.
type GlobalConfig struct {
	IntegrateAllomorph bool
	CutoffThreshold    float32
	UnkFormScoreScale  float32
	UnkFormScoreBias   float32
	SpacePenalty       float32
	TypoCostWeight     float32
	MaxUnkFormSize     uint32
	SpaceTolerance     uint32
}

func cloneTokens(tokens []Token) []Token {
	if tokens == nil {
		return nil
	}
	out := make([]Token, len(tokens))
	copy(out, tokens)
	return out
}

func cloneCandidates(candidates []AnalysisCandidate) []AnalysisCandidate {
	if candidates == nil {
		return nil
	}
	out := make([]AnalysisCandidate, len(candidates))
	for i, candidate := range candidates {
		out[i] = AnalysisCandidate{
			Probability: candidate.Probability,
			Tokens:      cloneTokens(candidate.Tokens),
		}
	}
	return out
}

func cloneSentences(sentences []Sentence) []Sentence {
	if sentences == nil {
		return nil
	}
	out := make([]Sentence, len(sentences))
	for i, sentence := range sentences {
		out[i] = Sentence{
			Text:   sentence.Text,
			Start:  sentence.Start,
			End:    sentence.End,
			Tokens: cloneTokens(sentence.Tokens),
			Subs:   cloneSentences(sentence.Subs),
		}
	}
	return out
}

func cloneBools(flags []bool) []bool {
	if flags == nil {
		return nil
	}
	out := make([]bool, len(flags))
	copy(out, flags)
	return out
}
