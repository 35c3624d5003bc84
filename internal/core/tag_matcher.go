// ABOUTME: Tag overlap scoring for tag-based relation discovery
// ABOUTME: Exact matches score 1, substring overlaps score 0.5
package core

import "strings"

const (
	exactTagScore   = 1.0
	partialTagScore = 0.5
)

// TagScore scores how well itemTags overlap referenceTags.
// Each item tag adds 1 for an exact match, otherwise 0.5 if it contains or is
// contained by some reference tag. Either side empty scores 0.
func TagScore(itemTags, referenceTags []string) float64 {
	if len(itemTags) == 0 || len(referenceTags) == 0 {
		return 0
	}

	reference := make(map[string]bool, len(referenceTags))
	for _, tag := range referenceTags {
		reference[tag] = true
	}

	var score float64
	for _, tag := range itemTags {
		if reference[tag] {
			score += exactTagScore
			continue
		}
		for _, ref := range referenceTags {
			if strings.Contains(tag, ref) || strings.Contains(ref, tag) {
				score += partialTagScore
				break
			}
		}
	}
	return score
}

// MatchRatio is the tag score relative to how many tags the item carries
func MatchRatio(score float64, itemTagCount int) float64 {
	if itemTagCount == 0 {
		return 0
	}
	return score / float64(itemTagCount)
}

// hasAnyTag reports whether itemTags contains at least one of wanted
func hasAnyTag(itemTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range itemTags {
			if t == w {
				return true
			}
		}
	}
	return false
}
