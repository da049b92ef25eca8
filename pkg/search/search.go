// Package search implements tokenized fuzzy search over labeled items.
//
// Labels and queries are lowercased and split into words on every rune that
// is not a letter or digit. A label is a candidate only if every query token
// approximately matches one of its words; the match for a token is the
// smallest edit distance between the token and any substring of the word, so
// "foo" matches "food" exactly and "fou" matches "foo" with one edit.
//
// Candidates are ranked by score, lowest first. The score is the mean token
// score plus small penalties for tokens matched out of query order, for
// unmatched words between matched words, and for label words no token
// matched. Equal scores keep input order, but callers should not rely on
// any order among ties.
package search

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Scoring parameters.
const (
	// Threshold is the largest edit distance, as a fraction of the token
	// length, that still counts as a match.
	Threshold = 0.6

	lengthWeight    = 0.25
	inversionWeight = 0.3
	gapWeight       = 0.025
	extraWeight     = 0.025

	epsilon = 1e-9
)

// Result is a ranked match.
type Result[T any] struct {
	Item  T
	Score float64
}

type entry[T any] struct {
	item  T
	words [][]rune
}

// Index is an immutable search index over a snapshot of items.
type Index[T any] struct {
	entries []entry[T]
}

// New indexes items using label to obtain each item's text.
func New[T any](items []T, label func(T) string) *Index[T] {
	ix := &Index[T]{entries: make([]entry[T], 0, len(items))}
	for _, item := range items {
		ix.entries = append(ix.entries, entry[T]{item: item, words: tokenizeRunes(label(item))})
	}
	return ix
}

// Len returns the number of indexed items.
func (ix *Index[T]) Len() int {
	return len(ix.entries)
}

// Search returns matching items ordered by relevance, best first.
// An empty or all-punctuation query matches nothing.
func (ix *Index[T]) Search(query string) []T {
	return ix.SearchLimit(query, 0)
}

// SearchLimit is like Search but returns at most limit items.
// A limit of zero or less means no limit.
func (ix *Index[T]) SearchLimit(query string, limit int) []T {
	ranked := ix.Rank(query)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]T, len(ranked))
	for i, r := range ranked {
		out[i] = r.Item
	}
	return out
}

// Rank returns matching items with their scores, best first.
func (ix *Index[T]) Rank(query string) []Result[T] {
	tokens := tokenizeRunes(query)
	if len(tokens) == 0 {
		return nil
	}

	var results []Result[T]
	for _, e := range ix.entries {
		if score, ok := scoreLabel(tokens, e.words); ok {
			results = append(results, Result[T]{Item: e.item, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	return results
}

// Tokenize lowercases s and splits it into words of letters and digits.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), isSeparator)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func tokenizeRunes(s string) [][]rune {
	words := Tokenize(s)
	out := make([][]rune, len(words))
	for i, w := range words {
		out[i] = []rune(w)
	}
	return out
}

// scoreLabel scores words against every token. ok is false unless all
// tokens match.
func scoreLabel(tokens, words [][]rune) (float64, bool) {
	if len(words) == 0 {
		return 0, false
	}

	positions := make([]int, len(tokens))
	var total float64
	for i, tok := range tokens {
		best, bestPos := math.Inf(1), -1
		for j, w := range words {
			s, ok := scoreToken(tok, w)
			if ok && s < best {
				best, bestPos = s, j
			}
		}
		if bestPos < 0 {
			return 0, false
		}
		total += best
		positions[i] = bestPos
	}
	score := total / float64(len(tokens))

	if len(tokens) > 1 {
		inversions := 0
		for i := range positions {
			for j := i + 1; j < len(positions); j++ {
				if positions[i] > positions[j] {
					inversions++
				}
			}
		}
		pairs := len(tokens) * (len(tokens) - 1) / 2
		score += inversionWeight * float64(inversions) / float64(pairs)
	}

	distinct := make(map[int]bool, len(positions))
	lo, hi := positions[0], positions[0]
	for _, p := range positions {
		distinct[p] = true
		lo = min(lo, p)
		hi = max(hi, p)
	}
	n := float64(len(words))
	gap := (hi - lo + 1) - len(distinct)
	extra := len(words) - len(distinct)
	score += gapWeight*float64(gap)/n + extraWeight*float64(extra)/n
	return score, true
}

// scoreToken returns the score of tok against word and whether it matches.
func scoreToken(tok, word []rune) (float64, bool) {
	d := substringDistance(tok, word)
	if float64(d) > Threshold*float64(len(tok))+epsilon {
		return 0, false
	}
	shorter, longer := len(tok), len(word)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	return float64(d)/float64(len(tok)) + lengthWeight*(1-float64(shorter)/float64(longer)), true
}

// substringDistance is the edit distance between pattern and the closest
// substring of text: leading and trailing text is free.
func substringDistance(pattern, text []rune) int {
	prev := make([]int, len(text)+1)
	cur := make([]int, len(text)+1)
	for i := 1; i <= len(pattern); i++ {
		cur[0] = i
		for j := 1; j <= len(text); j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j-1]+cost, prev[j]+1, cur[j-1]+1)
		}
		prev, cur = cur, prev
	}
	best := prev[0]
	for _, d := range prev {
		best = min(best, d)
	}
	return best
}
