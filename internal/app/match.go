package app

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/evanschultz/flowgrid/internal/domain"
)

// MatchCard reports whether query matches a card's label, kind or
// description. Label and kind match case-insensitively by substring, falling
// back to a per-word edit distance so small typos still match. The
// description only matches by substring.
func MatchCard(card domain.Card, query string) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	return matchText(card.Label, query) || matchText(card.Kind, query) ||
		strings.Contains(strings.ToLower(card.Description), query)
}

// matchText matches one already-lowercased query against text.
func matchText(text, query string) bool {
	text = strings.ToLower(text)
	if strings.Contains(text, query) {
		return true
	}
	limit := typoBudget(query)
	if limit == 0 {
		return false
	}
	for _, word := range strings.Fields(text) {
		if levenshtein.ComputeDistance(word, query) <= limit {
			return true
		}
	}
	return false
}

// typoBudget returns the edit distance tolerated for query.
func typoBudget(query string) int {
	switch n := len([]rune(query)); {
	case n < 4:
		return 0
	case n < 8:
		return 1
	default:
		return 2
	}
}
