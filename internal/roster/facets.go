package roster

import (
	"sort"
)

// Facets are the distinct filter values found in a set of rows.
type Facets struct {
	Parties []string `json:"parties"`
	States  []string `json:"states"`
}

// FacetsOf collects the sorted, distinct party and state values of rows.
func FacetsOf(rows []Row) Facets {
	parties := make(map[string]struct{})
	states := make(map[string]struct{})
	for _, r := range rows {
		if r.Party != "" {
			parties[r.Party] = struct{}{}
		}
		if r.State != "" {
			states[r.State] = struct{}{}
		}
	}
	return Facets{
		Parties: sortedKeys(parties),
		States:  sortedKeys(states),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
