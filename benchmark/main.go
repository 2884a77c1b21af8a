// Package main measures ballhog build times with and without the response cache.
// It runs each case several times, treating the first cached run as cold and
// averaging the rest as warm, and writes a CSV summary.
//
// Prerequisites:
// - ballhog binary installed and available in PATH
// - network access to the stats provider (or a compatible mirror)
//
// Usage: go run benchmark/main.go [base-url]
//
//	base-url: Optional stats provider base URL (defaults to the public API)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of one case (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Case        string
	Seasons     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkCase is one season set to build.
type BenchmarkCase struct {
	Name       string
	Seasons    string
	SeasonType string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	BaseURL     string
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Cases       []BenchmarkCase
}

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [base-url]\n", os.Args[0])
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "ballhog-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     10 * time.Minute,
		NoCacheRuns: 2,
		CacheRuns:   4,
		Cases: []BenchmarkCase{
			{Name: "single", Seasons: "2023-24", SeasonType: "Regular Season"},
			{Name: "pair", Seasons: "2022-23,2023-24", SeasonType: "Regular Season"},
			{Name: "playoffs", Seasons: "2022-23,2023-24", SeasonType: "Playoffs"},
			{Name: "default", Seasons: "2020-21,2021-22,2022-23,2023-24,2024-25", SeasonType: "Regular Season"},
		},
	}
	if len(os.Args) == 2 {
		config.BaseURL = os.Args[1]
	}

	if _, err := exec.LookPath("ballhog"); err != nil {
		fmt.Printf("Prerequisites check failed: ballhog binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes every configured case.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	fmt.Printf("Starting benchmark: %d cases, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Cases), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	results := make([]BenchmarkResult, 0, len(config.Cases))
	for _, c := range config.Cases {
		results = append(results, runBenchmarkSuite(config, c))
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for a case.
func runBenchmarkSuite(config BenchmarkConfig, c BenchmarkCase) BenchmarkResult {
	fmt.Printf("Running %s (%s, %s)\n", c.Name, c.Seasons, c.SeasonType)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, c, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Each case starts from an empty cache
	_ = os.Remove(filepath.Join(config.WorkDir, ".ballhog_cache.db"))
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Case:        c.Name,
		Seasons:     c.Seasons,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark builds a case numRuns times and returns the first time and the rest.
// With the cache disabled every run is reported as warm.
func runBenchmark(config BenchmarkConfig, c BenchmarkCase, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		"build",
		"--seasons", c.Seasons,
		"--season-type", c.SeasonType,
		"--cache-backend", cacheBackend,
		"--output-file", filepath.Join(config.WorkDir, c.Name+".csv"),
	}
	if config.BaseURL != "" {
		args = append(args, "--base-url", config.BaseURL)
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		cmd := exec.CommandContext(ctx, "ballhog", args...)
		cmd.Dir = config.WorkDir
		cmd.Env = append(os.Environ(), "HOME="+config.WorkDir)

		start := time.Now()
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) == 0 {
		return 0, nil
	}
	if cacheBackend == "none" {
		return 0, times
	}
	return times[0], times[1:]
}

// isSuccess checks if command output indicates a written leaderboard.
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Saved leaderboard to")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/ballhog_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"case", "seasons", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Case, result.Seasons, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-10s: No-cache: %s, Cold: %s, Warm: %s\n", result.Case, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}
