package kiwi

import (
	"math"
	"strconv"
	"strings"
)

var negInf = float32(math.Inf(-1))

// Glue merges independently produced text chunks into one string, inferring
// per-boundary spacing from language-model scores.
func (k *Kiwi) Glue(chunks []string) (string, error) {
	glued, _, err := k.GlueWithOptions(chunks, nil, false)
	return glued, err
}

// GlueWithOptions merges chunks and optionally reports the per-boundary
// space decisions. insertNewLines, when non-nil, must hold one flag per
// boundary (len(chunks)-1); boundaries flagged true render their inferred
// space as a newline instead.
//
// Boundary decisions are cached per chunk pair, and the assembled result is
// cached per chunk sequence, so repeated glue requests skip the engine
// entirely.
func (k *Kiwi) GlueWithOptions(chunks []string, insertNewLines []bool, returnSpaceInsertions bool) (string, []bool, error) {
	if len(chunks) == 0 {
		var flags []bool
		if returnSpaceInsertions {
			flags = []bool{}
		}
		return "", flags, nil
	}

	trimmed := make([]string, len(chunks))
	for i, chunk := range chunks {
		trimmed[i] = strings.TrimSpace(k.prepareInput(chunk))
	}

	boundaries := len(trimmed) - 1
	if insertNewLines != nil && len(insertNewLines) != boundaries {
		return "", nil, invalidArgf("insertNewLines length must be %d, got %d", boundaries, len(insertNewLines))
	}

	cacheKey := encodeGlueFlags(insertNewLines)
	cacheText := encodeGlueChunks(trimmed)
	if cached, ok := k.glueCache.lookup(cacheKey, cacheText); ok {
		var flags []bool
		if returnSpaceInsertions {
			flags = cloneBools(cached.spaces)
		}
		return cached.text, flags, nil
	}

	decisions, err := k.glueDecisions(trimmed)
	if err != nil {
		return "", nil, err
	}

	var out strings.Builder
	for i, chunk := range trimmed {
		if i > 0 && decisions[i-1] {
			if insertNewLines != nil && insertNewLines[i-1] {
				out.WriteByte('\n')
			} else {
				out.WriteByte(' ')
			}
		}
		out.WriteString(chunk)
	}
	glued := out.String()

	k.glueCache.insert(cacheKey, cacheText, glueResult{text: glued, spaces: cloneBools(decisions)})

	var flags []bool
	if returnSpaceInsertions {
		flags = decisions
	}
	return glued, flags, nil
}

// glueDecisions resolves the space decision for every adjacent chunk pair,
// batching all uncached pairs through one multi-text engine call.
func (k *Kiwi) glueDecisions(chunks []string) ([]bool, error) {
	boundaries := len(chunks) - 1
	decisions := make([]bool, boundaries)

	var missing []gluePair
	missingAt := make(map[gluePair][]int)
	for i := 0; i < boundaries; i++ {
		pair := gluePair{left: chunks[i], right: chunks[i+1]}
		if cached, ok := k.gluePairCache.Get(pair); ok {
			decisions[i] = cached
			continue
		}
		if _, seen := missingAt[pair]; !seen {
			missing = append(missing, pair)
		}
		missingAt[pair] = append(missingAt[pair], i)
	}
	if len(missing) == 0 {
		return decisions, nil
	}

	// Two renderings per missing pair, spaced first.
	texts := make([]string, 0, len(missing)*2)
	for _, pair := range missing {
		texts = append(texts, pair.left+" "+pair.right, pair.left+pair.right)
	}
	scores, err := k.topCandidateScores(texts)
	if err != nil {
		return nil, err
	}

	for j, pair := range missing {
		insert := scores[2*j] >= scores[2*j+1] || endsWithASCIIWord(pair.left)
		k.gluePairCache.Add(pair, insert)
		for _, i := range missingAt[pair] {
			decisions[i] = insert
		}
	}
	return decisions, nil
}

// topCandidateScores returns the top-1 probability for each text, using the
// native batch entry point when the engine build has one. Texts with no
// candidates score negative infinity.
func (k *Kiwi) topCandidateScores(texts []string) ([]float32, error) {
	options := k.defaultOptions.withTopN(1)
	engineOptions := EngineOptions{
		MatchOptions:    options.MatchOptions,
		OpenEnding:      options.OpenEnding,
		AllowedDialects: options.AllowedDialects,
		DialectCost:     options.DialectCost,
	}

	scores := make([]float32, len(texts))
	if k.caps.Has(CapAnalyzeMany) {
		batches, err := k.engine.AnalyzeMany(texts, 1, engineOptions)
		if err != nil {
			return nil, err
		}
		if len(batches) != len(texts) {
			return nil, &EngineError{Op: "analyze_many", Message: "result count does not match input count"}
		}
		for i, candidates := range batches {
			scores[i] = topProbability(candidates)
		}
		return scores, nil
	}

	for i, text := range texts {
		candidates, err := k.engine.Analyze(text, 1, engineOptions)
		if err != nil {
			return nil, err
		}
		scores[i] = topProbability(candidates)
	}
	return scores, nil
}

func topProbability(candidates []AnalysisCandidate) float32 {
	if len(candidates) == 0 {
		return negInf
	}
	return candidates[0].Probability
}

// encodeGlueChunks length-prefixes each chunk so distinct chunk lists can
// never encode to the same key, whatever bytes the chunks contain.
func encodeGlueChunks(chunks []string) string {
	var b strings.Builder
	for _, chunk := range chunks {
		b.WriteString(strconv.Itoa(len(chunk)))
		b.WriteByte(':')
		b.WriteString(chunk)
	}
	return b.String()
}

func encodeGlueFlags(flags []bool) string {
	if flags == nil {
		return "-"
	}
	b := make([]byte, len(flags))
	for i, flag := range flags {
		if flag {
			b[i] = 'n'
		} else {
			b[i] = 's'
		}
	}
	return string(b)
}
