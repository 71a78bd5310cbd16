package vfs

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/syamace/syaos/internal/applets"
)

// SearchPolicy tunes the Applets Store fuzzy matcher. The thresholds are
// empirically chosen, not derived; treat them as policy, not contract.
type SearchPolicy struct {
	// Thresholds map query length to the minimum best-of-three score a
	// candidate must reach. Shorter queries demand higher confidence.
	Thresholds []LengthThreshold

	// DefaultLimit and MaxLimit bound list truncation.
	DefaultLimit int
	MaxLimit     int
}

// LengthThreshold applies Min to queries of at most MaxLen runes.
type LengthThreshold struct {
	MaxLen int
	Min    float64
}

// DefaultSearchPolicy returns the tuned production policy.
func DefaultSearchPolicy() SearchPolicy {
	return SearchPolicy{
		Thresholds: []LengthThreshold{
			{MaxLen: 2, Min: 0.65},
			{MaxLen: 4, Min: 0.50},
			{MaxLen: 6, Min: 0.45},
			{MaxLen: 8, Min: 0.42},
		},
		DefaultLimit: 50,
		MaxLimit:     100,
	}
}

// threshold returns the minimum score for a query of the given length.
// Queries longer than every configured bucket use the floor of 0.40.
func (p SearchPolicy) threshold(queryLen int) float64 {
	for _, t := range p.Thresholds {
		if queryLen <= t.MaxLen {
			return t.Min
		}
	}
	return 0.40
}

// scoredApplet pairs a candidate with its best match score.
type scoredApplet struct {
	applet applets.SharedApplet
	score  float64
}

// rankApplets filters and orders catalog candidates for one query.
//
// With a non-empty query, each candidate is scored by the best of three
// signals computed over its normalized title, name, and creator; only
// candidates meeting the length-dependent threshold survive, sorted by
// score descending with recency breaking ties. With an empty query all
// candidates are kept, newest first. The result is truncated to limit.
func rankApplets(candidates []applets.SharedApplet, query string, limit int, policy SearchPolicy) []scoredApplet {
	if limit <= 0 {
		limit = policy.DefaultLimit
	}
	if limit > policy.MaxLimit {
		limit = policy.MaxLimit
	}

	q := normalizeText(query)
	var out []scoredApplet

	if q == "" {
		for _, c := range candidates {
			out = append(out, scoredApplet{applet: c})
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].applet.CreatedAt.After(out[j].applet.CreatedAt)
		})
		if len(out) > limit {
			out = out[:limit]
		}
		return out
	}

	minScore := policy.threshold(len([]rune(q)))
	for _, c := range candidates {
		score := bestFieldScore(q, c.Title, c.Name, c.Creator)
		if score >= minScore {
			out = append(out, scoredApplet{applet: c, score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].applet.CreatedAt.After(out[j].applet.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// bestFieldScore scores the query against each candidate field and keeps
// the maximum.
func bestFieldScore(normQuery string, fields ...string) float64 {
	best := 0.0
	for _, f := range fields {
		if f == "" {
			continue
		}
		if s := matchScore(normQuery, normalizeText(f)); s > best {
			best = s
		}
	}
	return best
}

// matchScore combines the three match signals via max-of-scores.
func matchScore(query, text string) float64 {
	if query == "" || text == "" {
		return 0
	}
	best := containmentScore(query, text)
	if s := subsequenceScore(query, text); s > best {
		best = s
	}
	if s := editDistanceScore(query, text); s > best {
		best = s
	}
	return best
}

// containmentScore scores substring containment, weighted by match
// position: a prefix match scores 1.0, later matches decay toward 0.7.
func containmentScore(query, text string) float64 {
	idx := strings.Index(text, query)
	if idx < 0 {
		return 0
	}
	span := len(text) - len(query)
	if span <= 0 {
		return 1.0
	}
	return 1.0 - 0.3*float64(idx)/float64(span)
}

// subsequenceScore scores a loose in-order match, weighted by density:
// query runes matched within a tight span of the text score higher than
// the same runes scattered across it.
func subsequenceScore(query, text string) float64 {
	qr, tr := []rune(query), []rune(text)
	start, qi := -1, 0
	for ti := 0; ti < len(tr) && qi < len(qr); ti++ {
		if tr[ti] == qr[qi] {
			if start < 0 {
				start = ti
			}
			qi++
			if qi == len(qr) {
				density := float64(len(qr)) / float64(ti-start+1)
				return 0.4 + 0.5*density
			}
		}
	}
	return 0
}

// editDistanceScore slides a query-length window across the text, takes
// the minimum Levenshtein distance of the query against any window, and
// normalizes it to [0,1].
func editDistanceScore(query, text string) float64 {
	qr, tr := []rune(query), []rune(text)
	if len(tr) < len(qr) {
		d := levenshtein(qr, tr)
		return clamp01(1.0 - float64(d)/float64(len(qr)))
	}
	minD := len(qr) + 1
	for i := 0; i+len(qr) <= len(tr); i++ {
		if d := levenshtein(qr, tr[i:i+len(qr)]); d < minD {
			minD = d
		}
	}
	return clamp01(1.0 - float64(minD)/float64(len(qr)))
}

// levenshtein computes the edit distance between two rune slices with a
// two-row dynamic program.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// diacriticsStripper removes combining marks after NFD decomposition.
var diacriticsStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// normalizeText lower-cases and strips diacritics for matching.
func normalizeText(s string) string {
	stripped, _, err := transform.String(diacriticsStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// clamp01 clamps v into [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
