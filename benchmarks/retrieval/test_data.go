// ABOUTME: Fixture corpus and retrieval cases for the benchmark
// ABOUTME: Notes are addressed by stable keys so expectations survive fresh IDs

package retrieval

// Mode selects which engine operation a case exercises
type Mode string

const (
	ModeKeyword  Mode = "keyword"
	ModeSemantic Mode = "semantic"
	ModeRelated  Mode = "related"
)

// FixtureNote is one note seeded into the benchmark store
type FixtureNote struct {
	Key     string
	Title   string
	Content string
	Tags    []string
}

// TestCase is a single retrieval query with its ground truth
type TestCase struct {
	ID          string
	Name        string
	Mode        Mode
	Query       string
	Tags        []string
	SourceKey   string   // related mode: the note to find relations for
	Expected    []string // fixture keys that count as relevant
	K           int
	MinRecall   float64
	Description string
}

// GetCorpus returns the fixture notes in insertion order
func GetCorpus() []FixtureNote {
	return []FixtureNote{
		{
			Key:     "go-contexts",
			Title:   "Go context cancellation",
			Content: "Pass context.Context as the first argument and respect cancellation in goroutines.",
			Tags:    []string{"go", "concurrency"},
		},
		{
			Key:     "go-errgroup",
			Title:   "errgroup fan-out",
			Content: "Use errgroup to run goroutines in parallel and collect the first error.",
			Tags:    []string{"go", "concurrency"},
		},
		{
			Key:     "go-modules",
			Title:   "Go modules",
			Content: "Pin dependencies in go.mod and use replace directives for local forks.",
			Tags:    []string{"go", "tooling"},
		},
		{
			Key:     "sqlite-wal",
			Title:   "SQLite WAL mode",
			Content: "Enable WAL journaling so readers do not block the writer; checkpoint regularly.",
			Tags:    []string{"sqlite", "database"},
		},
		{
			Key:     "postgres-vacuum",
			Title:   "Postgres vacuum",
			Content: "Tune autovacuum and analyze schedules for large, write-heavy tables.",
			Tags:    []string{"postgres", "database"},
		},
		{
			Key:     "sourdough",
			Title:   "Sourdough starter",
			Content: "Feed the starter twice a day with equal weights of flour and water before baking bread.",
			Tags:    []string{"baking", "cooking"},
		},
		{
			Key:     "pasta",
			Title:   "Pasta water",
			Content: "Salt the water generously before the pasta goes in.",
			Tags:    []string{"cooking"},
		},
		{
			Key:     "tomatoes",
			Title:   "Tomato seedlings",
			Content: "Harden off tomato seedlings for a week before planting them in the garden.",
			Tags:    []string{"garden"},
		},
		{
			Key:     "compost",
			Title:   "Compost ratios",
			Content: "Mix browns and greens three to one for hot compost in the garden.",
			Tags:    []string{"garden"},
		},
		{
			Key:     "k8s-probes",
			Title:   "Kubernetes probes",
			Content: "Readiness probes gate traffic during rolling deploys.",
			Tags:    []string{"kubernetes", "ops"},
		},
		{
			Key:     "incident-review",
			Title:   "Incident review",
			Content: "Write a blameless review after every outage with a timeline and followups.",
			Tags:    []string{"ops"},
		},
		{
			Key:     "vim-macros",
			Title:   "Vim macros",
			Content: "Record a macro with q and replay it across many lines.",
			Tags:    []string{"editor", "tooling"},
		},
	}
}

// GetKeywordCases returns cases answered by keyword and tag matching
func GetKeywordCases() []TestCase {
	return []TestCase{
		{
			ID:          "kw-wal",
			Name:        "Keyword: WAL journaling",
			Mode:        ModeKeyword,
			Query:       "WAL journaling",
			Expected:    []string{"sqlite-wal"},
			K:           3,
			MinRecall:   1.0,
			Description: "Short tokens are dropped; the remaining keyword must still find the note",
		},
		{
			ID:          "kw-garden",
			Name:        "Keyword: garden",
			Mode:        ModeKeyword,
			Query:       "garden",
			Expected:    []string{"tomatoes", "compost"},
			K:           5,
			MinRecall:   1.0,
			Description: "Keyword present in content and tags of two notes",
		},
		{
			ID:          "kw-outage",
			Name:        "Keyword: outage timeline",
			Mode:        ModeKeyword,
			Query:       "outage timeline",
			Expected:    []string{"incident-review"},
			K:           3,
			MinRecall:   1.0,
			Description: "Multi-keyword query matching any keyword",
		},
		{
			ID:          "kw-tags",
			Name:        "Tags: database",
			Mode:        ModeKeyword,
			Tags:        []string{"database"},
			Expected:    []string{"sqlite-wal", "postgres-vacuum"},
			K:           5,
			MinRecall:   1.0,
			Description: "Tag-only query without text",
		},
	}
}

// GetSemanticCases returns cases that need an embedding provider
func GetSemanticCases() []TestCase {
	return []TestCase{
		{
			ID:          "sem-cancel",
			Name:        "Semantic: stopping goroutines",
			Mode:        ModeSemantic,
			Query:       "how do I stop goroutines that are no longer needed",
			Expected:    []string{"go-contexts", "go-errgroup"},
			K:           3,
			MinRecall:   0.5,
			Description: "Paraphrased question with little keyword overlap",
		},
		{
			ID:          "sem-bread",
			Name:        "Semantic: baking bread",
			Mode:        ModeSemantic,
			Query:       "making bread at home with flour",
			Expected:    []string{"sourdough"},
			K:           3,
			MinRecall:   1.0,
			Description: "Topic query that should land on the starter note",
		},
	}
}

// GetRelatedCases returns relation discovery cases
func GetRelatedCases() []TestCase {
	return []TestCase{
		{
			ID:          "rel-errgroup",
			Name:        "Related: context note",
			Mode:        ModeRelated,
			SourceKey:   "go-contexts",
			Expected:    []string{"go-errgroup"},
			K:           1,
			MinRecall:   1.0,
			Description: "The note sharing both tags ranks first",
		},
		{
			ID:          "rel-garden",
			Name:        "Related: tomato seedlings",
			Mode:        ModeRelated,
			SourceKey:   "tomatoes",
			Expected:    []string{"compost"},
			K:           3,
			MinRecall:   1.0,
			Description: "Single shared tag",
		},
		{
			ID:          "rel-cooking",
			Name:        "Related: pasta water",
			Mode:        ModeRelated,
			SourceKey:   "pasta",
			Expected:    []string{"sourdough"},
			K:           3,
			MinRecall:   1.0,
			Description: "Shared tag across different subjects",
		},
	}
}

// GetAllTests returns every case in run order
func GetAllTests() []TestCase {
	var cases []TestCase
	cases = append(cases, GetKeywordCases()...)
	cases = append(cases, GetSemanticCases()...)
	cases = append(cases, GetRelatedCases()...)
	return cases
}
