// Package main provides a performance benchmarking tool for the Bugtrail CLI.
// It measures retrieval and pattern-matching times across synthetic codebase
// snapshots of different sizes, running each test multiple times, treating the
// first successful run as cold and averaging the rest as warm, generating CSV
// output for performance analysis and documentation.
//
// Prerequisites:
// - bugtrail binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic snapshots are generated
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Snapshot    string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoStoreRuns int
	StoreRuns   int
	Sizes       map[string]int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     2 * time.Minute,
		NoStoreRuns: 3,
		StoreRuns:   4,
		Sizes: map[string]int{
			"small":  100,
			"medium": 1000,
			"large":  5000,
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the store so pattern lookups start cold
	fmt.Printf("Clearing debug memory...\n")
	if output, err := runCLI(config.WorkDir, config.Timeout, "store", "clear"); err != nil {
		fmt.Printf("Warning: failed to clear store: %v\nOutput: %s\n", err, output)
	} else {
		fmt.Printf("Debug memory cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the bugtrail binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("bugtrail"); err != nil {
		return fmt.Errorf("bugtrail binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// generateSnapshot writes a synthetic codebase snapshot with the given file count.
func generateSnapshot(path string, fileCount int) error {
	files := make(map[string]any, fileCount)
	deps := make(map[string]map[string]string)
	var commits []map[string]any

	for i := 0; i < fileCount; i++ {
		name := fmt.Sprintf("pkg%d/file%d.go", i%20, i)
		files[name] = map[string]any{
			"content":  fmt.Sprintf("package pkg%d\n\nfunc Handler%d() { process(%d) }\n", i%20, i, i),
			"loc":      3,
			"language": "go",
			"functions": map[string]any{
				fmt.Sprintf("Handler%d", i): map[string]any{
					"content":    fmt.Sprintf("func Handler%d() { process(%d) }", i, i),
					"complexity": 1 + i%5,
				},
			},
		}
		if i > 0 {
			prev := fmt.Sprintf("pkg%d/file%d.go", (i-1)%20, i-1)
			deps[name] = map[string]string{prev: "imports"}
		}
		if i%3 == 0 && i > 0 {
			commits = append(commits, map[string]any{
				"hash":    fmt.Sprintf("c%d", i),
				"files":   []string{name, fmt.Sprintf("pkg%d/file%d.go", (i-1)%20, i-1)},
				"message": fmt.Sprintf("touch file%d", i),
			})
		}
	}

	snapshot := map[string]any{
		"files":        files,
		"dependencies": deps,
		"history":      map[string]any{"commits": commits},
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes all benchmark tests across configured snapshot sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, no-store: %d runs, store: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	for _, name := range []string{"small", "medium", "large"} {
		fileCount := config.Sizes[name]
		fmt.Printf("Benchmarking %s (%d files)\n", name, fileCount)

		snapshotPath := filepath.Join(config.WorkDir, name+".json")
		if err := generateSnapshot(snapshotPath, fileCount); err != nil {
			fmt.Printf("Warning: failed to generate %s snapshot: %v\n", name, err)
			continue
		}

		// Retrieval
		retrieveArgs := []string{
			"retrieve", snapshotPath,
			"--category", "concurrency_issues",
			"--error-file", "pkg0/file0.go",
			"--error-message", "deadlock in process",
		}
		results = append(results, runBenchmarkSuite(config, name, "retrieve", retrieveArgs))

		// Pattern matching
		findArgs := []string{
			"patterns", "find",
			"--category", "concurrency_issues",
			"--error-file", "pkg0/file0.go",
		}
		results = append(results, runBenchmarkSuite(config, name, "patterns find", findArgs))
	}

	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, snapshot, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, snapshot)

	// Helper to run a benchmark phase
	runPhase := func(storeBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, args, storeBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-store runs
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: Store runs
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Snapshot:    snapshot,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a bugtrail command multiple times with the specified store backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command string, args []string, storeBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	fullArgs := append(append([]string(nil), args...), "--store-backend", storeBackend)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		output, err := runCLI(config.WorkDir, config.Timeout, fullArgs...)
		if err == nil && isSuccess(output, command) {
			times = append(times, time.Since(start).Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// runCLI runs one bugtrail invocation with a timeout and returns combined output.
func runCLI(dir string, timeout time.Duration, args ...string) (string, error) {
	cmd := exec.Command("bugtrail", args...)
	cmd.Dir = dir

	done := make(chan bool)
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		done <- true
	}()

	select {
	case <-done:
		return string(output), cmdErr
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		return "", fmt.Errorf("timed out after %v", timeout)
	}
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output, command string) bool {
	if command == "retrieve" {
		return strings.Contains(output, "Retrieved")
	}
	return true
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/bugtrail_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"snapshot", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Snapshot, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "retrieve", "Context Retrieval:")
	printCommandSummary(results, "patterns find", "Pattern Matching:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-store: %s, Cold: %s, Warm: %s\n", result.Snapshot, result.NoStoreTime, result.ColdTime, result.WarmTime)
		}
	}
}
