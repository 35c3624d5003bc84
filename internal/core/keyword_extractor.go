// ABOUTME: Frequency-based keyword extraction from free text
// ABOUTME: Feeds the keyword-derived relation strategy
package core

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultMaxKeywords is how many keywords relation discovery derives from a source item
const DefaultMaxKeywords = 5

// minKeywordLength excludes tokens of this many characters or fewer
const minKeywordLength = 3

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// Stop words that survive the length filter but carry no topic
var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "been": true,
	"before": true, "being": true, "between": true, "both": true, "could": true,
	"does": true, "doing": true, "down": true, "each": true, "from": true,
	"further": true, "have": true, "having": true, "here": true, "into": true,
	"just": true, "more": true, "most": true, "much": true, "only": true,
	"other": true, "over": true, "same": true, "should": true, "some": true,
	"such": true, "than": true, "that": true, "their": true, "theirs": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "under": true, "until": true,
	"very": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "will": true, "with": true, "would": true,
	"your": true, "yours": true,
}

// ExtractKeywords returns up to maxKeywords of the most frequent content words
// in text. Ties keep first-seen order. Blank text yields an empty slice.
func ExtractKeywords(text string, maxKeywords int) []string {
	if maxKeywords <= 0 || strings.TrimSpace(text) == "" {
		return []string{}
	}

	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), "")

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(word) <= minKeywordLength || stopWords[word] {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	if order == nil {
		return []string{}
	}
	return order
}
