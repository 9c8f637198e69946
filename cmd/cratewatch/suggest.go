package main

import (
	"sort"

	"github.com/ancients-collective/cratewatch/internal/types"
)

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	if la < lb {
		a, b = b, a
		la, lb = lb, la
	}

	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			ins := curr[j-1] + 1
			del := prev[j] + 1
			sub := prev[j-1] + cost
			curr[j] = min(ins, del, sub)
		}
		prev = curr
	}
	return prev[lb]
}

// suggestPackages returns up to 3 crate names closest to the input by edit
// distance. Duplicate versions of the same crate collapse to one entry.
func suggestPackages(input string, packages []types.Package) []string {
	type candidate struct {
		name string
		dist int
	}

	maxDist := len(input) / 2
	if maxDist < 3 {
		maxDist = 3
	}

	seen := make(map[string]bool)
	var candidates []candidate
	for _, p := range packages {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		d := levenshtein(input, p.Name)
		if d <= maxDist && d > 0 {
			candidates = append(candidates, candidate{name: p.Name, dist: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].name < candidates[j].name
	})

	limit := 3
	if len(candidates) < limit {
		limit = len(candidates)
	}

	result := make([]string, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].name
	}
	return result
}
