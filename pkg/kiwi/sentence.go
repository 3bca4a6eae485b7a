package kiwi

import "sort"

// SplitIntoSentences returns character-offset sentence boundaries from the
// engine's native splitter, without token detail.
func (k *Kiwi) SplitIntoSentences(text string, match MatchOptions) ([]SentenceBoundary, error) {
	if err := k.require(CapSplitSentences); err != nil {
		return nil, err
	}
	return k.engine.SplitSentences(k.prepareInput(text), match)
}

// SplitIntoSentencesWithOptions tokenizes text at top-1 and groups the token
// stream into sentences, optionally with tokens and clause-level
// sub-sentences attached. Results are served from a bounded cache.
func (k *Kiwi) SplitIntoSentencesWithOptions(text string, options AnalyzeOptions, returnTokens, returnSubSents bool) ([]Sentence, error) {
	options.TopN = 1
	text = k.prepareInput(text)

	key := splitKey{options: options, returnTokens: returnTokens, returnSubSent: returnSubSents}
	if cached, ok := k.splitCache.lookup(key, text); ok {
		return cloneSentences(cached), nil
	}

	tokens, err := k.TokenizeWithOptions(text, options)
	if err != nil {
		return nil, err
	}
	sentences := buildSentencesFromTokens(text, tokens, returnTokens, returnSubSents)
	k.splitCache.insert(key, text, cloneSentences(sentences))
	return sentences, nil
}

// buildSentencesFromTokens groups a flat token stream by sentence position.
// Sentence spans are the min/max character offsets of their tokens; slicing
// goes through the char-to-byte table so multi-byte text slices correctly.
func buildSentencesFromTokens(text string, tokens []Token, returnTokens, returnSubSents bool) []Sentence {
	if len(tokens) == 0 {
		return nil
	}

	m := charToByteMap(text)
	groups := make(map[int][]Token)
	var positions []int
	for _, token := range tokens {
		if _, ok := groups[token.SentPosition]; !ok {
			positions = append(positions, token.SentPosition)
		}
		groups[token.SentPosition] = append(groups[token.SentPosition], token)
	}
	sort.Ints(positions)

	out := make([]Sentence, 0, len(positions))
	for _, position := range positions {
		sentenceTokens := groups[position]
		start := sentenceTokens[0].Position
		end := start
		for _, token := range sentenceTokens {
			if token.Position < start {
				start = token.Position
			}
			if token.End() > end {
				end = token.End()
			}
		}

		sentence := Sentence{
			Text:  sliceCharRange(text, m, start, end),
			Start: start,
			End:   end,
		}
		if returnSubSents {
			subs := buildSubSentences(text, m, sentenceTokens, returnTokens)
			if subs == nil {
				subs = []Sentence{}
			}
			sentence.Subs = subs
		}
		if returnTokens {
			sentence.Tokens = cloneTokens(sentenceTokens)
		}
		out = append(out, sentence)
	}
	return out
}

// buildSubSentences splits one sentence's tokens into contiguous runs of
// equal nonzero sub-sentence position. A zero position closes any open run
// without starting a new one. Sub-sentences never nest.
func buildSubSentences(text string, m []int, sentenceTokens []Token, returnTokens bool) []Sentence {
	var out []Sentence
	currentID := 0
	currentStart := 0
	currentEnd := 0
	var currentTokens []Token

	flush := func() {
		sub := Sentence{
			Text:  sliceCharRange(text, m, currentStart, currentEnd),
			Start: currentStart,
			End:   currentEnd,
		}
		if returnTokens {
			sub.Tokens = currentTokens
		}
		out = append(out, sub)
		currentTokens = nil
	}

	for _, token := range sentenceTokens {
		id := token.SubSentPosition
		if id == 0 {
			if currentID != 0 {
				flush()
				currentID = 0
			}
			continue
		}
		if currentID != id {
			if currentID != 0 {
				flush()
			}
			currentID = id
			currentStart = token.Position
		}
		currentEnd = token.End()
		currentTokens = append(currentTokens, token)
	}
	if currentID != 0 {
		flush()
	}
	return out
}
