// ABOUTME: Outcome is the explicit result of one retrieval strategy attempt
// ABOUTME: Fallback chains inspect outcomes instead of catching errors
package core

import "github.com/harper/recall/internal/models"

// Outcome is what a strategy produced: ranked items, a decline, or an error
type Outcome struct {
	Strategy string
	Items    []models.ScoredItem
	Declined bool
	Err      error
}

func succeeded(strategy string, items []models.ScoredItem) Outcome {
	if items == nil {
		items = []models.ScoredItem{}
	}
	return Outcome{Strategy: strategy, Items: items}
}

func declined(strategy string) Outcome {
	return Outcome{Strategy: strategy, Declined: true}
}

func failed(strategy string, err error) Outcome {
	return Outcome{Strategy: strategy, Err: err}
}

// Ok reports whether the strategy ran to completion
func (o Outcome) Ok() bool {
	return o.Err == nil && !o.Declined
}

// Found reports whether the strategy completed with at least one item
func (o Outcome) Found() bool {
	return o.Ok() && len(o.Items) > 0
}

// unscored wraps plain store results as zero-score items, keeping order
func unscored(items []models.Item) []models.ScoredItem {
	out := make([]models.ScoredItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.ScoredItem{Item: item})
	}
	return out
}
