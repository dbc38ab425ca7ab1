package rag

import (
	"sort"
	"strings"

	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/samber/lo"
)

// InsightList answers keyword queries over a fixed set of curated
// insights, ranked by importance.
type InsightList struct {
	insights []domain.IndustryInsight
}

// NewInsightList validates and wraps the given insights.
func NewInsightList(insights []domain.IndustryInsight) (*InsightList, error) {
	for i := range insights {
		if err := domain.ValidateInsight(&insights[i]); err != nil {
			return nil, err
		}
	}
	return &InsightList{insights: insights}, nil
}

// Search returns insights whose content or category contains the topic
// (case-insensitive), sorted descending by importance. Ties keep original
// load order.
func (l *InsightList) Search(topic string) []domain.IndustryInsight {
	needle := strings.ToLower(strings.TrimSpace(topic))
	if needle == "" {
		return nil
	}

	matched := lo.Filter(l.insights, func(i domain.IndustryInsight, _ int) bool {
		return strings.Contains(strings.ToLower(i.Content), needle) ||
			strings.Contains(strings.ToLower(i.Category), needle)
	})

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Importance > matched[j].Importance
	})

	return matched
}

// Len returns the number of insights in the list.
func (l *InsightList) Len() int {
	return len(l.insights)
}
