package scoring

import (
	"math/rand"
	"sort"

	"github.com/resonancehq/archetype-api/internal/domain"
)

const (
	singleSignalWeight = 2
	multiSignalWeight  = 1
	phraseCount        = 3
)

// Engine folds answered options into per-archetype scores and picks the
// winner. It is pure apart from the injected random source, which is used
// for tie-breaking and phrase sampling so tests can pin the sequence.
type Engine struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// Score computes the winning archetype for a set of answers.
//
// An option with exactly one signal contributes 2 points to it; an option
// with several signals contributes 1 point to each (diluted evidence); an
// option with none contributes nothing. Answers referencing unknown
// question or option ids are skipped rather than rejected: malformed input
// degrades score coverage, it does not fail the submission. If nothing
// scored, the fixed default archetype wins.
func (e *Engine) Score(answers []domain.Answer) string {
	totals := map[string]int{}

	for _, a := range answers {
		options, ok := signals[a.QuestionID]
		if !ok {
			continue
		}
		sigs, ok := options[a.OptionID]
		if !ok {
			continue
		}
		switch len(sigs) {
		case 0:
		case 1:
			totals[sigs[0]] += singleSignalWeight
		default:
			for _, s := range sigs {
				totals[s] += multiSignalWeight
			}
		}
	}

	if len(totals) == 0 {
		return domain.ArchetypeDefault
	}

	max := 0
	for _, v := range totals {
		if v > max {
			max = v
		}
	}

	var tied []string
	for id, v := range totals {
		if v == max {
			tied = append(tied, id)
		}
	}
	// Map iteration order is random; sort before drawing so the injected
	// source fully determines the pick.
	sort.Strings(tied)

	if len(tied) == 1 {
		return tied[0]
	}
	return tied[e.rng.Intn(len(tied))]
}

// SamplePhrases draws three distinct display phrases for the archetype.
// The draw happens once at submission and the result is frozen into the
// record for its whole life.
func (e *Engine) SamplePhrases(archetypeID string) []string {
	pool, ok := phrasePools[archetypeID]
	if !ok || len(pool) == 0 {
		return nil
	}

	n := phraseCount
	if n > len(pool) {
		n = len(pool)
	}

	idx := e.rng.Perm(len(pool))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}
