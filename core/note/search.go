package note

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pmezard/go-difflib/difflib"
)

var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

func searchTerms(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

func words(text string) []string {
	return strings.Fields(punctuationRegex.ReplaceAllString(strings.ToLower(text), " "))
}

func similarity(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

// matchScore reports whether any term fuzzy matches the note's title or content.
// The score is the sum, per term, of the best similarity between the term and a word of the note.
func matchScore(n Note, terms []string) (float64, bool) {
	if len(terms) == 0 {
		return 0, false
	}
	text := n.Title + "\n" + n.Content
	noteWords := words(text)

	var score float64
	var matched bool
	for _, term := range terms {
		if fuzzy.MatchFold(term, text) {
			matched = true
		}
		var best float64
		for _, w := range noteWords {
			if r := similarity(term, w); r > best {
				best = r
			}
		}
		score += best
	}
	return score, matched
}

// search keeps the notes matching search, most similar first. Ties keep their input order.
func search(notes []Note, search string) []Note {
	terms := searchTerms(search)
	if len(terms) == 0 {
		return notes
	}

	type scored struct {
		note  Note
		score float64
	}
	matches := make([]scored, 0, len(notes))
	for _, n := range notes {
		if score, ok := matchScore(n, terms); ok {
			matches = append(matches, scored{note: n, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	found := make([]Note, 0, len(matches))
	for _, m := range matches {
		found = append(found, m.note)
	}
	return found
}
