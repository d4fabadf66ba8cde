package usecase

import (
	"sort"

	"github.com/labellens/backend/internal/domain"
)

// minFuzzyLength keeps short words from matching half the dataset
const minFuzzyLength = 4

// Suggestion is a dataset ingredient whose name is close to a search term
type Suggestion struct {
	Name           string                `json:"name"`
	Distance       int                   `json:"distance"`
	Classification domain.Classification `json:"classification"`
}

// SuggestIngredients lists dataset names within maxDistance edits of term,
// closest first and then by name. Terms shorter than four characters only
// match exactly. limit <= 0 means no limit.
func SuggestIngredients(ds *domain.Dataset, term string, maxDistance, limit int) []Suggestion {
	term = normalizeToken(term)
	if term == "" || ds == nil {
		return nil
	}
	if maxDistance < 0 {
		maxDistance = 0
	}

	termLen := len([]rune(term))
	if termLen < minFuzzyLength {
		maxDistance = 0
	}

	var out []Suggestion
	for _, rec := range ds.Records() {
		if absDiff(len([]rune(rec.Name)), termLen) > maxDistance {
			continue
		}
		if d := editDistance(term, rec.Name); d <= maxDistance {
			out = append(out, Suggestion{Name: rec.Name, Distance: d, Classification: rec.Classification})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// editDistance is the Levenshtein distance over runes, using two rows
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
