// Package main provides a performance benchmarking tool for the vcx CLI.
// It scores every capture folder below a base directory with several worker
// counts, running each combination multiple times, treating the first
// successful run as cold and averaging the rest as warm, and generates CSV
// output for performance analysis and documentation.
//
// Prerequisites:
// - vcx binary installed and available in PATH
// - Capture folders below the base directory, one per device under test
// - A scoring configuration (vcx1.5_config.json by default)
//
// Usage: go run benchmark/main.go [capture-base-dir] [scoring-config]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"
)

// BenchmarkResult holds the result of one capture scored with one worker count.
type BenchmarkResult struct {
	Capture  string
	Workers  int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	CaptureBase string
	ScoringFile string
	Timeout     time.Duration
	Runs        int
	WorkerSets  []int
	Captures    []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Printf("Usage: %s [capture-base-dir] [scoring-config]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		CaptureBase: os.Args[1],
		ScoringFile: "vcx1.5_config.json",
		Timeout:     5 * time.Minute,
		Runs:        4,
		WorkerSets:  workerSets(),
	}
	if len(os.Args) == 3 {
		config.ScoringFile = os.Args[2]
	}

	if err := checkPrerequisites(&config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// workerSets returns the distinct worker counts to benchmark.
func workerSets() []int {
	sets := []int{1, 4, runtime.GOMAXPROCS(0)}
	slices.Sort(sets)
	return slices.Compact(sets)
}

// checkPrerequisites verifies that the vcx binary, the scoring config and at
// least one capture folder exist, and fills config.Captures.
func checkPrerequisites(config *BenchmarkConfig) error {
	if _, err := exec.LookPath("vcx"); err != nil {
		return fmt.Errorf("vcx binary not found in PATH")
	}
	if _, err := os.Stat(config.ScoringFile); err != nil {
		return fmt.Errorf("scoring config %s not found", config.ScoringFile)
	}

	entries, err := os.ReadDir(config.CaptureBase)
	if err != nil {
		return fmt.Errorf("cannot read capture base %s: %w", config.CaptureBase, err)
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			config.Captures = append(config.Captures, e.Name())
		}
	}
	if len(config.Captures) == 0 {
		return errors.New("no capture folders found")
	}
	return nil
}

// runBenchmarks executes all benchmark runs across the captures
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d captures, %v timeout, workers %v, %d runs\n",
		len(config.Captures), config.Timeout, config.WorkerSets, config.Runs)

	for _, capture := range config.Captures {
		fmt.Printf("Benchmarking %s\n", capture)
		capturePath := filepath.Join(config.CaptureBase, capture)

		for _, workers := range config.WorkerSets {
			cold, warm := runBenchmark(config, capturePath, workers)
			result := BenchmarkResult{Capture: capture, Workers: workers, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
			if cold > 0 {
				result.ColdTime = fmt.Sprintf("%.3fs", cold)
			}
			if len(warm) > 0 {
				var sum float64
				for _, t := range warm {
					sum += t
				}
				result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
			}
			fmt.Printf("  %2d workers: Cold: %s, Warm average: %s\n", workers, result.ColdTime, result.WarmTime)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmark scores one capture config.Runs times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, capturePath string, workers int) (coldTime float64, warmTimes []float64) {
	args := []string{capturePath, "--config", config.ScoringFile, "--workers", fmt.Sprint(workers), "--color", "no"}

	var times []float64
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "vcx", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "VCX score") &&
		strings.Contains(outputStr, "Scored") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/vcx_benchmark_%s.csv", timestamp)

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
	if err := writer.Write([]string{"capture", "workers", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Capture, fmt.Sprint(result.Workers), result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-20s %2d workers: Cold: %s, Warm: %s\n", result.Capture, result.Workers, result.ColdTime, result.WarmTime)
	}
}
