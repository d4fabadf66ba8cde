package usecase

// IgnoreList is the static set of nutrition-panel boilerplate terms that are
// never looked up. Membership is by normalized equality, so multi-word entries
// only take effect for callers that match phrases rather than single tokens.
type IgnoreList struct {
	terms map[string]struct{}
}

// NewIgnoreList normalizes and de-duplicates terms
func NewIgnoreList(terms []string) IgnoreList {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		n := normalizeToken(t)
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return IgnoreList{terms: set}
}

// Contains reports whether token is ignored
func (l IgnoreList) Contains(token string) bool {
	_, ok := l.terms[normalizeToken(token)]
	return ok
}

// Len returns the number of distinct terms
func (l IgnoreList) Len() int {
	return len(l.terms)
}
