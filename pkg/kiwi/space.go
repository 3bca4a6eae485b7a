package kiwi

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Space restores canonical spacing in text. When resetWhitespace is set,
// whitespace between Hangul syllables is collapsed first so the analyzer
// re-derives every boundary instead of trusting the input's spacing.
func (k *Kiwi) Space(text string, resetWhitespace bool) (string, error) {
	text = k.prepareInput(text)
	if resetWhitespace {
		text = resetHangulWhitespace(text)
	}

	options := k.defaultOptions
	options.MatchOptions = MatchAll | MatchZCoda
	tokens, err := k.TokenizeWithOptions(text, options)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return text, nil
	}
	return reconstructSpacedText(text, tokens), nil
}

// SpaceMany applies Space to each text in order.
func (k *Kiwi) SpaceMany(texts []string, resetWhitespace bool) ([]string, error) {
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		spaced, err := k.Space(text, resetWhitespace)
		if err != nil {
			return nil, err
		}
		out = append(out, spaced)
	}
	return out, nil
}

// resetHangulWhitespace removes whitespace runs whose left neighbor is a
// Hangul syllable and whose right neighbor is Hangul or sentence punctuation.
// Other whitespace (around Latin text, at the edges) is preserved.
func resetHangulWhitespace(text string) string {
	runes := []rune(text)
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(runes); {
		if !unicode.IsSpace(runes[i]) {
			out.WriteRune(runes[i])
			i++
			continue
		}
		start := i
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		remove := start > 0 && isHangulSyllable(runes[start-1]) &&
			i < len(runes) && isHangulOrSentencePunct(runes[i])
		if !remove {
			for _, r := range runes[start:i] {
				out.WriteRune(r)
			}
		}
	}
	return out.String()
}

func tagStartsWithAny(tag string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(tag, prefix) {
			return true
		}
	}
	return false
}

// isSpaceInsertableTarget reports whether a token with this tag may receive
// a space before it: nouns, modifiers, interjections, verb and adjective
// stems, roots and prefixes, and foreign or Chinese script tags.
func isSpaceInsertableTarget(tag string) bool {
	if tag == "" {
		return false
	}
	switch tag[0] {
	case 'N', 'M', 'I':
		return true
	}
	return tagStartsWithAny(tag, "VV", "VA", "VX", "VCN", "XR", "XPN", "SW", "SL", "SH", "SN")
}

// isSpaceInsertableTargetStrict is the narrower successor set used after
// numeral and punctuation tags.
func isSpaceInsertableTargetStrict(tag string) bool {
	if tag == "" {
		return false
	}
	switch tag[0] {
	case 'M', 'I':
		return true
	}
	return tagStartsWithAny(tag, "NP", "NR", "NNG", "NNP", "VV", "VA", "VX", "VCN", "XR", "XPN", "SW", "SH")
}

// isSpaceInsertablePrev reports whether a token with this tag may have a
// space after it. Punctuation, unknown, and affix classes do not, with
// explicit exceptions for roots, suffixes, ellipses and Chinese script.
func isSpaceInsertablePrev(tag string) bool {
	if tag == "" {
		return true
	}
	switch tag[0] {
	case 'S', 'U', 'W', 'X':
		return tagStartsWithAny(tag, "XR", "XS", "SE", "SH")
	}
	return true
}

// shouldInsertSpaceBetween decides space insertion from the tag pair. The
// auxiliary verb roots 하/지 stay attached to the preceding verb regardless
// of tag match.
func shouldInsertSpaceBetween(prevTag, tag, form string) bool {
	if tag == "VX" && (form == "하" || form == "지") {
		return false
	}
	if isSpaceInsertablePrev(prevTag) && isSpaceInsertableTarget(tag) {
		return true
	}
	if prevTag == "SN" && isSpaceInsertableTargetStrict(tag) {
		return true
	}
	return tagStartsWithAny(prevTag, "SF", "SP", "SL") && isSpaceInsertableTargetStrict(tag)
}

// shouldStripGap reports whether whitespace before this token must be
// removed: dependent endings, particles, derivational suffixes, the bound
// auxiliary roots 하/지, and bound nouns directly after a numeral.
func shouldStripGap(prevTag, tag, form string) bool {
	if tag == "" {
		return false
	}
	switch tag[0] {
	case 'E', 'J':
		return true
	}
	if strings.HasPrefix(tag, "XS") {
		return true
	}
	if tag == "VX" && (form == "하" || form == "지") {
		return true
	}
	return prevTag == "SN" && tag == "NNB"
}

// reconstructSpacedText converts raw (possibly unspaced) text plus its top-1
// token analysis into canonically spaced text. Tokens must be in
// non-decreasing position order. Empty token lists return raw unchanged.
func reconstructSpacedText(raw string, tokens []Token) string {
	if len(tokens) == 0 {
		return raw
	}

	m := charToByteMap(raw)
	textLen := len(m) - 1
	var out strings.Builder
	out.Grow(len(raw) + len(tokens))

	var lastEmitted rune
	emit := func(s string) {
		if s == "" {
			return
		}
		out.WriteString(s)
		lastEmitted, _ = utf8.DecodeLastRuneInString(s)
	}

	last := 0
	prevTag := ""

	for i, token := range tokens {
		start := token.Position
		if start > textLen {
			start = textLen
		}
		end := token.Position + token.Length
		if end > textLen {
			end = textLen
		}
		if end < start {
			end = start
		}

		if last < start {
			gap := sliceCharRange(raw, m, last, start)
			if shouldStripGap(prevTag, token.Tag, token.Form) {
				gap = stripAllWhitespace(gap)
			}
			emit(gap)
			last = start
		}

		if prevTag != "" && shouldInsertSpaceBetween(prevTag, token.Tag, token.Form) {
			if out.Len() > 0 && !unicode.IsSpace(lastEmitted) {
				emit(" ")
			}
		}

		if last < end {
			// Noun tokens whose span stops short of the next token carry
			// the canonical form, correcting irregular internal spacing
			// inside a single noun.
			if strings.HasPrefix(token.Tag, "NN") && (i+1 >= len(tokens) || end <= tokens[i+1].Position) {
				emit(token.Form)
			} else {
				emit(stripAllWhitespace(sliceCharRange(raw, m, last, end)))
			}
		}

		last = end
		prevTag = token.Tag
	}

	if last < textLen {
		emit(sliceCharRange(raw, m, last, textLen))
	}
	return out.String()
}
