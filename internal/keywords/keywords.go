// Package keywords ranks medically relevant n-grams of a transcript.
package keywords

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Veraticus/physician-notetaker/internal/lexicon"
)

// DefaultTopN is the number of ranked keywords kept when none is configured.
const DefaultTopN = 15

const (
	maxGram        = 3
	phraseWeight   = 2.0
	termWeight     = 1.0
	lengthBonus    = 0.5
	minKeywordSize = 3
)

var (
	speakerLabel = regexp.MustCompile(`(?im)^\s*(physician|doctor|patient):\s*`)
	nonWord      = regexp.MustCompile(`[^\p{L}\p{N}_\s\-]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Keyword is a ranked n-gram.
type Keyword struct {
	Text  string  `json:"keyword" yaml:"keyword"`
	Score float64 `json:"score" yaml:"score"`
}

// Result holds everything extracted from one transcript.
type Result struct {
	// MedicalPhrases are the known phrases found in the text, title-cased.
	MedicalPhrases []string
	Keywords       []Keyword
	// All merges MedicalPhrases and keyword texts without duplicates.
	All []string
}

// Top returns the texts of the first n ranked keywords.
func (r Result) Top(n int) []string {
	if n > len(r.Keywords) || n < 0 {
		n = len(r.Keywords)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = r.Keywords[i].Text
	}
	return out
}

// Ranker scores n-grams by frequency and medical relevance.
type Ranker struct {
	terms   map[string]struct{}
	phrases map[string]struct{}
	ordered []string
	topN    int
}

// NewRanker creates a ranker over the medical vocabulary keeping topN
// keywords. A non-positive topN means DefaultTopN.
func NewRanker(topN int) *Ranker {
	if topN <= 0 {
		topN = DefaultTopN
	}
	r := &Ranker{
		terms:   make(map[string]struct{}, len(lexicon.MedicalTerms)),
		phrases: make(map[string]struct{}, len(lexicon.MedicalPhrases)),
		ordered: lexicon.MedicalPhrases,
		topN:    topN,
	}
	for _, t := range lexicon.MedicalTerms {
		r.terms[strings.ToLower(t)] = struct{}{}
	}
	for _, p := range lexicon.MedicalPhrases {
		r.phrases[strings.ToLower(p)] = struct{}{}
	}
	return r
}

// Extract ranks the keywords of text and lists the medical phrases it
// mentions.
func (r *Ranker) Extract(text string) Result {
	res := Result{
		MedicalPhrases: r.MedicalPhrases(text),
		Keywords:       r.Rank(text),
	}

	seen := make(map[string]struct{})
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		res.All = append(res.All, s)
	}
	for _, p := range res.MedicalPhrases {
		add(p)
	}
	for _, k := range res.Keywords {
		add(k.Text)
	}
	return res
}

// Rank returns the top medically relevant 1-3 grams of text, best first.
// Equal scores keep first-occurrence order.
func (r *Ranker) Rank(text string) []Keyword {
	words := strings.Fields(Preprocess(text))

	counts := make(map[string]int)
	var order []string
	for n := 1; n <= maxGram; n++ {
		for i := 0; i+n <= len(words); i++ {
			gram := strings.Join(words[i:i+n], " ")
			if counts[gram] == 0 {
				order = append(order, gram)
			}
			counts[gram]++
		}
	}

	ranked := make([]Keyword, 0, len(order))
	for _, gram := range order {
		relevance := r.Relevance(gram)
		if len(gram) <= minKeywordSize || relevance <= 0 {
			continue
		}
		n := strings.Count(gram, " ") + 1
		ranked = append(ranked, Keyword{
			Text:  gram,
			Score: float64(counts[gram]) + relevance + lengthBonus*float64(n),
		})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})
	if len(ranked) > r.topN {
		ranked = ranked[:r.topN]
	}
	return ranked
}

// Relevance scores gram against the medical vocabulary: a known phrase is
// worth more than its individual terms.
func (r *Ranker) Relevance(gram string) float64 {
	gram = strings.ToLower(gram)
	var score float64
	if _, ok := r.phrases[gram]; ok {
		score += phraseWeight
	}
	for _, w := range strings.Fields(gram) {
		if _, ok := r.terms[w]; ok {
			score += termWeight
		}
	}
	return score
}

// MedicalPhrases returns the known phrases contained in text, title-cased, in
// vocabulary order.
func (r *Ranker) MedicalPhrases(text string) []string {
	lower := strings.ToLower(text)
	caser := cases.Title(language.English)

	found := []string{}
	for _, p := range r.ordered {
		if strings.Contains(lower, strings.ToLower(p)) {
			found = append(found, caser.String(p))
		}
	}
	return found
}

// Preprocess strips speaker labels and punctuation other than hyphens, then
// lower-cases and collapses whitespace.
func Preprocess(text string) string {
	text = speakerLabel.ReplaceAllString(text, "")
	text = nonWord.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}
