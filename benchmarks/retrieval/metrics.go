// ABOUTME: Ranking metrics for retrieval benchmarks
// ABOUTME: Computes recall@k, precision@k and reciprocal rank against fixture keys

package retrieval

import (
	"fmt"
)

// Case status values
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

// TestResult is the evaluation of one case
type TestResult struct {
	TestID         string                 `json:"test_id"`
	TestName       string                 `json:"test_name"`
	Mode           Mode                   `json:"mode"`
	RecallAtK      float64                `json:"recall_at_k"`
	PrecisionAtK   float64                `json:"precision_at_k"`
	ReciprocalRank float64                `json:"reciprocal_rank"`
	Status         string                 `json:"status"`
	Details        map[string]interface{} `json:"details,omitempty"`
}

// MetricsCalculator computes ranking scores for benchmark cases
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// RecallAtK is the share of expected keys found in the first k results
func (m *MetricsCalculator) RecallAtK(retrieved, expected []string, k int) float64 {
	if len(expected) == 0 {
		return 1.0
	}
	return float64(m.hits(retrieved, expected, k)) / float64(len(expected))
}

// PrecisionAtK is the share of the first k results that are expected.
// Fewer than k results still divide by k.
func (m *MetricsCalculator) PrecisionAtK(retrieved, expected []string, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(m.hits(retrieved, expected, k)) / float64(k)
}

// ReciprocalRank is 1/rank of the first expected result, or 0 if none appear
func (m *MetricsCalculator) ReciprocalRank(retrieved, expected []string) float64 {
	want := toSet(expected)
	for i, key := range retrieved {
		if want[key] {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

func (m *MetricsCalculator) hits(retrieved, expected []string, k int) int {
	want := toSet(expected)
	count := 0
	for i, key := range retrieved {
		if i >= k {
			break
		}
		if want[key] {
			count++
		}
	}
	return count
}

// EvaluateTest scores retrieved keys against a case's ground truth
func (m *MetricsCalculator) EvaluateTest(tc TestCase, retrieved []string) TestResult {
	recall := m.RecallAtK(retrieved, tc.Expected, tc.K)
	precision := m.PrecisionAtK(retrieved, tc.Expected, tc.K)
	rr := m.ReciprocalRank(retrieved, tc.Expected)

	status := StatusFail
	if recall >= tc.MinRecall {
		status = StatusPass
	}

	return TestResult{
		TestID:         tc.ID,
		TestName:       tc.Name,
		Mode:           tc.Mode,
		RecallAtK:      recall,
		PrecisionAtK:   precision,
		ReciprocalRank: rr,
		Status:         status,
		Details: map[string]interface{}{
			"k":          tc.K,
			"expected":   tc.Expected,
			"retrieved":  retrieved[:min(tc.K, len(retrieved))],
			"min_recall": tc.MinRecall,
			"summary":    fmt.Sprintf("%d/%d expected in top %d", m.hits(retrieved, tc.Expected, tc.K), len(tc.Expected), tc.K),
		},
	}
}

// Summary aggregates results that were not skipped
type Summary struct {
	Total         int     `json:"total_tests"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	Skipped       int     `json:"skipped"`
	MeanRecall    float64 `json:"mean_recall_at_k"`
	MeanPrecision float64 `json:"mean_precision_at_k"`
	MRR           float64 `json:"mrr"`
}

// Summarize computes pass counts and mean scores
func (m *MetricsCalculator) Summarize(results []TestResult) Summary {
	s := Summary{Total: len(results)}
	scored := 0
	for _, r := range results {
		switch r.Status {
		case StatusSkip:
			s.Skipped++
			continue
		case StatusPass:
			s.Passed++
		default:
			s.Failed++
		}
		scored++
		s.MeanRecall += r.RecallAtK
		s.MeanPrecision += r.PrecisionAtK
		s.MRR += r.ReciprocalRank
	}
	if scored > 0 {
		s.MeanRecall /= float64(scored)
		s.MeanPrecision /= float64(scored)
		s.MRR /= float64(scored)
	}
	return s
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
