package insight

import (
	"fmt"
	"sort"

	"github.com/rpggio/readtrail/internal/domain/activity"
)

// FacetField names the record field a facet ranks.
type FacetField string

const (
	FacetTags   FacetField = "tags"
	FacetColors FacetField = "colors"
)

// ParseFacetField validates a facet name.
func ParseFacetField(s string) (FacetField, error) {
	switch FacetField(s) {
	case FacetTags, FacetColors:
		return FacetField(s), nil
	}
	return "", fmt.Errorf("unknown facet %q", s)
}

// Facet is a value and the number of records carrying it.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopFacets ranks the values of field by the number of records carrying them.
// Ties keep first-seen order. n <= 0 returns every value.
func TopFacets(records []activity.Record, field FacetField, n int) []Facet {
	index := make(map[string]int)
	var facets []Facet
	for _, rec := range records {
		seen := make(map[string]bool)
		for _, v := range facetValues(rec, field) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			i, ok := index[v]
			if !ok {
				i = len(facets)
				index[v] = i
				facets = append(facets, Facet{Value: v})
			}
			facets[i].Count++
		}
	}
	sort.SliceStable(facets, func(i, j int) bool {
		return facets[i].Count > facets[j].Count
	})
	if n > 0 && len(facets) > n {
		facets = facets[:n]
	}
	return facets
}

func facetValues(rec activity.Record, field FacetField) []string {
	switch field {
	case FacetColors:
		return []string{rec.AnnotationColor}
	case FacetTags:
		values := make([]string, 0, len(rec.AnnotationTags)+len(rec.ArticleTags))
		for _, tag := range rec.AnnotationTags {
			values = append(values, tag.Tag)
		}
		for _, tag := range rec.ArticleTags {
			values = append(values, tag.Tag)
		}
		return values
	}
	return nil
}
