// Package catalog ranks reference courses against a free-text query.
package catalog

import (
	"sort"
	"strings"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// MaxResults bounds the number of suggestions returned by Search.
const MaxResults = 8

const minTokenLen = 2

type scored struct {
	item  models.CatalogItem
	score int
}

// Search returns up to MaxResults items ordered by descending score. Ties keep catalog order.
func Search(query string, items []models.CatalogItem) []models.CatalogItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.CatalogItem{}
	}

	matches := make([]scored, 0, len(items))
	for _, item := range items {
		if s := Score(q, item); s > 0 {
			matches = append(matches, scored{item: item, score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	out := make([]models.CatalogItem, len(matches))
	for i, m := range matches {
		out[i] = m.item
	}
	return out
}

// Score computes the relevance of item for an already lower-cased, trimmed query.
func Score(q string, item models.CatalogItem) int {
	code := strings.ToLower(item.Code)
	name := strings.ToLower(item.Name)
	score := 0

	switch {
	case code == q:
		score += 100
	case strings.HasPrefix(code, q):
		score += 80
	case strings.Contains(code, q):
		score += 60
	}

	switch {
	case name == q:
		score += 90
	case strings.HasPrefix(name, q):
		score += 70
	case strings.Contains(name, " "+q):
		score += 50
	case strings.Contains(name, q):
		score += 40
	}

	nameWords := strings.Fields(name)
	for _, token := range strings.Fields(q) {
		if len(token) < minTokenLen {
			continue
		}
		for _, word := range nameWords {
			if strings.HasPrefix(word, token) {
				score += 20
			} else if strings.Contains(word, token) {
				score += 10
			}
		}
	}

	return score
}
