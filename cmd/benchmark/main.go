// ABOUTME: Command-line benchmark runner for retrieval quality
// ABOUTME: Seeds a fixture corpus, runs keyword, semantic and relation cases, and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harper/recall/benchmarks/retrieval"
	"github.com/harper/recall/internal/app"
	"github.com/harper/recall/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	testID := flag.String("test", "", "Run a specific case by ID (e.g. kw-wal, sem-bread). If empty, runs all cases.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (continuing anyway): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gateway, err := app.NewGateway(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to create embedding gateway: %v", err)
	}
	if gateway == nil {
		log.Println("No embedding provider configured - semantic cases will be skipped")
	}

	fmt.Println("========================================")
	fmt.Println("Recall Retrieval Benchmarks")
	fmt.Println("========================================")

	ctx := context.Background()
	runner, err := retrieval.NewBenchmarkRunner(ctx, cfg, gateway, *verbose, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to create benchmark runner: %v", err)
	}
	defer runner.Close()

	var results []retrieval.TestResult
	if *testID == "" {
		results, err = runner.RunAllTests(ctx)
		if err != nil {
			log.Fatalf("Benchmark failed: %v", err)
		}
	} else {
		var found *retrieval.TestCase
		for _, tc := range retrieval.GetAllTests() {
			if tc.ID == *testID {
				tc := tc
				found = &tc
				break
			}
		}
		if found == nil {
			log.Fatalf("Unknown test ID: %s", *testID)
		}

		result, err := runner.RunTest(ctx, *found)
		if err != nil {
			log.Fatalf("Test failed: %v", err)
		}
		results = []retrieval.TestResult{result}
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	for _, result := range results {
		fmt.Printf("\n%s: %s [%s]\n", result.TestID, result.TestName, result.Mode)
		if result.Status == retrieval.StatusSkip {
			fmt.Printf("  Status: %s\n", result.Status)
			continue
		}
		fmt.Printf("  Recall@k: %.2f\n", result.RecallAtK)
		fmt.Printf("  Precision@k: %.2f\n", result.PrecisionAtK)
		fmt.Printf("  Reciprocal rank: %.2f\n", result.ReciprocalRank)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	summary := runner.Summarize(results)
	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", summary.Total)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	fmt.Printf("Mean recall@k: %.2f  Mean precision@k: %.2f  MRR: %.2f\n",
		summary.MeanRecall, summary.MeanPrecision, summary.MRR)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
