// Loadtest is a concurrent HTTP load testing tool for the page server. It
// spreads requests over one or more paths and reports throughput, latency
// percentiles, and per-path status distribution.
//
// Usage:
//
//	go run ./scripts -base http://localhost:4190 -paths /index.html,/about-us.html -concurrency 10 -requests 1000
//	go run ./scripts -base http://localhost:4190 -requests 5000 -out summary.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type pathStats struct {
	Count     int32
	Success   int32
	Failure   int32
	Latencies []time.Duration
}

func main() {
	var (
		base        = flag.String("base", "http://localhost:4190", "Server base URL")
		pathsFlag   = flag.String("paths", "/index.html", "Comma-separated request paths")
		concurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
		requests    = flag.Int("requests", 100, "Total number of requests to send")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
		outJSON     = flag.String("out", "", "Write JSON summary to this file (optional)")
		verbose     = flag.Bool("v", false, "Verbose per-request logging to stdout")
	)
	flag.Parse()

	paths := strings.Split(*pathsFlag, ",")
	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	var total, success, failure int32
	stats := make(map[string]*pathStats)
	statusCodes := make(map[int]int32)
	var allLatencies []time.Duration
	var mu sync.Mutex

	jobs := make(chan int)
	var wg sync.WaitGroup

	testStart := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				path := paths[idx%len(paths)]
				atomic.AddInt32(&total, 1)
				start := time.Now()

				req, err := http.NewRequest(http.MethodGet, *base+path, nil)
				if err != nil {
					atomic.AddInt32(&failure, 1)
					continue
				}

				// Spread fake client IPs so the access log shows a population
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("192.168.1.%d", (idx%50)+1))

				resp, err := client.Do(req)
				dur := time.Since(start)

				if err != nil {
					atomic.AddInt32(&failure, 1)
					if *verbose {
						fmt.Printf("[%d] idx=%d path=%s error=%v\n", workerID, idx, path, err)
					}
					continue
				}

				ok := resp.StatusCode >= 200 && resp.StatusCode <= 399
				if ok {
					atomic.AddInt32(&success, 1)
				} else {
					atomic.AddInt32(&failure, 1)
				}

				mu.Lock()
				statusCodes[resp.StatusCode]++
				allLatencies = append(allLatencies, dur)
				ps := stats[path]
				if ps == nil {
					ps = &pathStats{}
					stats[path] = ps
				}
				ps.Count++
				if ok {
					ps.Success++
				} else {
					ps.Failure++
				}
				ps.Latencies = append(ps.Latencies, dur)
				mu.Unlock()

				if *verbose {
					fmt.Printf("[%d] idx=%d path=%s status=%d dur=%v\n", workerID, idx, path, resp.StatusCode, dur)
				}

				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}(i)
	}

	go func() {
		for i := 0; i < *requests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()
	totalDuration := time.Since(testStart)
	throughput := float64(total) / totalDuration.Seconds()

	fmt.Println("--- Load Test Summary ---")
	fmt.Printf("Target: %s  Paths: %s\n", *base, strings.Join(paths, " "))
	fmt.Printf("Requests: %d  Concurrency: %d\n", *requests, *concurrency)
	fmt.Printf("Total sent: %d  Success: %d  Failure: %d\n", total, success, failure)
	fmt.Printf("Duration: %v  Throughput: %.2f req/s\n", totalDuration, throughput)

	fmt.Println("\nStatus codes:")
	var scKeys []int
	for k := range statusCodes {
		scKeys = append(scKeys, k)
	}
	sort.Ints(scKeys)
	for _, k := range scKeys {
		fmt.Printf("  %d -> %d\n", k, statusCodes[k])
	}

	fmt.Println("\nPer-path stats:")
	var pathKeys []string
	for k := range stats {
		pathKeys = append(pathKeys, k)
	}
	sort.Strings(pathKeys)
	for _, k := range pathKeys {
		ps := stats[k]
		fmt.Printf("  %s -> total=%d success=%d failure=%d\n", k, ps.Count, ps.Success, ps.Failure)
		if len(ps.Latencies) > 0 {
			sorted := sortedCopy(ps.Latencies)
			fmt.Printf("    latencies: samples=%d min=%v avg=%v max=%v p50=%v p90=%v p95=%v p99=%v\n",
				len(sorted), sorted[0], avg(sorted), sorted[len(sorted)-1],
				pick(sorted, 0.50), pick(sorted, 0.90), pick(sorted, 0.95), pick(sorted, 0.99))
		}
	}

	if len(allLatencies) > 0 {
		sorted := sortedCopy(allLatencies)
		fmt.Println("\nOverall latencies:")
		fmt.Printf("  samples=%d min=%v avg=%v max=%v p50=%v p90=%v p95=%v p99=%v\n",
			len(sorted), sorted[0], avg(sorted), sorted[len(sorted)-1],
			pick(sorted, 0.50), pick(sorted, 0.90), pick(sorted, 0.95), pick(sorted, 0.99))
	}

	if *outJSON != "" {
		writeSummary(*outJSON, *base, *requests, *concurrency, total, success, failure, totalDuration, throughput, stats)
	}

	if failure > 0 {
		os.Exit(2)
	}
}

func writeSummary(path, base string, requests, concurrency int, total, success, failure int32, duration time.Duration, throughput float64, stats map[string]*pathStats) {
	type pathSummary struct {
		Total   int32   `json:"total"`
		Success int32   `json:"success"`
		Failure int32   `json:"failure"`
		P50     float64 `json:"p50_ms"`
		P90     float64 `json:"p90_ms"`
		P95     float64 `json:"p95_ms"`
		P99     float64 `json:"p99_ms"`
	}

	report := map[string]interface{}{
		"target":         base,
		"requests":       requests,
		"concurrency":    concurrency,
		"total_sent":     total,
		"success":        success,
		"failure":        failure,
		"duration_ms":    duration.Milliseconds(),
		"throughput_rps": throughput,
	}

	summary := make(map[string]pathSummary, len(stats))
	for k, v := range stats {
		ps := pathSummary{Total: v.Count, Success: v.Success, Failure: v.Failure}
		if len(v.Latencies) > 0 {
			sorted := sortedCopy(v.Latencies)
			ms := func(p float64) float64 { return float64(pick(sorted, p).Microseconds()) / 1000.0 }
			ps.P50 = ms(0.50)
			ps.P90 = ms(0.90)
			ps.P95 = ms(0.95)
			ps.P99 = ms(0.99)
		}
		summary[k] = ps
	}
	report["paths"] = summary

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.Encode(report)
	fmt.Printf("\nWrote JSON summary to %s\n", path)
}

func sortedCopy(durations []time.Duration) []time.Duration {
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

func avg(durations []time.Duration) time.Duration {
	var sum time.Duration
	for _, d := range durations {
		sum += d
	}
	return sum / time.Duration(len(durations))
}

func pick(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)-1) * p)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
