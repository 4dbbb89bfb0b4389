// Package main provides a performance benchmarking tool for the Cheetah CLI.
// It measures execution times of the bulk export commands against a real
// OpenData export, running each command with and without the SQLite table store.
// The first successful run of a phase is treated as cold and the rest are averaged as warm.
// Results are written as CSV for performance analysis and documentation.
//
// Prerequisites:
// - cheetah binary installed and available in PATH
// - An OpenData bulk export unpacked to the given directory
//
// Usage: go run benchmark/main.go [opendata-root]
//
//	opendata-root: Directory containing one folder per athlete id
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Athlete     string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Root        string
	Timeout     time.Duration
	NoStoreRuns int
	StoreRuns   int
	MaxAthletes int
	StorePath   string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [opendata-root]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Root:        os.Args[1],
		Timeout:     2 * time.Minute,
		NoStoreRuns: 3,
		StoreRuns:   4,
		MaxAthletes: 3,
		StorePath:   filepath.Join(os.TempDir(), "cheetah_benchmark_store.db"),
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	athletes, err := listAthletes(config)
	if err != nil {
		fmt.Printf("Failed to list athletes: %v\n", err)
		os.Exit(1)
	}

	// Start from an empty store
	_ = os.Remove(config.StorePath)
	defer func() { _ = os.Remove(config.StorePath) }()

	results := runBenchmarks(config, athletes)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the cheetah binary and the export root exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("cheetah"); err != nil {
		return fmt.Errorf("cheetah binary not found in PATH")
	}
	info, err := os.Stat(config.Root)
	if err != nil {
		return fmt.Errorf("opendata root not found at %s", config.Root)
	}
	if !info.IsDir() {
		return fmt.Errorf("opendata root %s is not a directory", config.Root)
	}
	return nil
}

// listAthletes asks cheetah for the athlete ids and keeps the first few
func listAthletes(config BenchmarkConfig) ([]string, error) {
	cmd := exec.Command("cheetah", "opendata", "athletes", "--output", "csv", "--opendata-root", config.Root)
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("no athletes found under %s", config.Root)
	}
	ids := lines[1:]
	if len(ids) > config.MaxAthletes {
		ids = ids[:config.MaxAthletes]
	}
	return ids, nil
}

// runBenchmarks executes all benchmark tests across the selected athletes
func runBenchmarks(config BenchmarkConfig, athletes []string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d athletes, %v timeout, no-store: %d runs, store: %d runs\n",
		len(athletes), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	for _, athlete := range athletes {
		fmt.Printf("Benchmarking %s\n", athlete)

		results = append(results, runBenchmarkSuite(config, athlete, "files", []string{"opendata", "files", athlete}))
		results = append(results, runBenchmarkSuite(config, athlete, "summary", []string{"opendata", "summary", athlete}))
		results = append(results, runBenchmarkSuite(config, athlete, "unpack", []string{"opendata", "summary", athlete, "--unpack-lists"}))
	}

	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, athlete, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, athlete)

	runPhase := func(storeBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, storeBackend, numRuns)
		if cold == 0 {
			return 0, "TIMEOUT"
		}
		if len(times) == 0 {
			return cold, fmt.Sprintf("%.3fs", cold)
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Athlete:     athlete,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a cheetah command multiple times with the given store backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, extraArgs []string, storeBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, extraArgs...)
	args = append(args, "--opendata-root", config.Root, "--output", "csv", "--store-backend", storeBackend)
	if storeBackend == "sqlite" {
		args = append(args, "--store-db-connect", config.StorePath)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("cheetah", args...)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.Output()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("cheetah_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"athlete", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Athlete, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "files", "Activity Files:")
	printCommandSummary(results, "summary", "Athlete Summary:")
	printCommandSummary(results, "unpack", "Athlete Summary With List Expansion:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-38s: No-store: %s, Cold: %s, Warm: %s\n", result.Athlete, result.NoStoreTime, result.ColdTime, result.WarmTime)
		}
	}
}
