package metrics

import (
	"sort"
	"sync"
	"time"
)

type Metrics struct {
	mutex         sync.RWMutex
	requests      map[string]int64
	responseTimes map[string][]time.Duration
	statusCodes   map[string]map[int]int64
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64                   `json:"total_requests"`
	Uptime        time.Duration           `json:"uptime"`
	Routes        map[string]RouteMetrics `json:"routes"`
	Environment   string                  `json:"environment"`
}

type RouteMetrics struct {
	Requests    int64         `json:"requests"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

func (m *Metrics) IncrementRequests(path string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[path]++
}

func (m *Metrics) RecordResponse(path string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes[path] = append(m.responseTimes[path], duration)

	if len(m.responseTimes[path]) > 1000 {
		m.responseTimes[path] = m.responseTimes[path][1:]
	}

	if m.statusCodes[path] == nil {
		m.statusCodes[path] = make(map[int]int64)
	}
	m.statusCodes[path][statusCode]++
}

func (m *Metrics) Snapshot(environment string) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:      time.Since(m.startTime),
		Routes:      make(map[string]RouteMetrics),
		Environment: environment,
	}

	// Collect all unique request paths
	allPaths := make(map[string]bool)
	for path := range m.requests {
		allPaths[path] = true
	}
	for path := range m.responseTimes {
		allPaths[path] = true
	}
	for path := range m.statusCodes {
		allPaths[path] = true
	}

	for path := range allPaths {
		snap.TotalRequests += m.requests[path]

		rm := RouteMetrics{
			Requests:    m.requests[path],
			StatusCodes: m.statusCodes[path],
		}

		durations := m.responseTimes[path]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			rm.AvgResponse = average(sorted)
			rm.P50Response = percentile(sorted, 0.50)
			rm.P95Response = percentile(sorted, 0.95)
			rm.P99Response = percentile(sorted, 0.99)
		}

		snap.Routes[path] = rm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:      make(map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		statusCodes:   make(map[string]map[int]int64),
		startTime:     time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
