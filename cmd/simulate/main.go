// Simulates booking contention: many workers race to book the same agenda
// slot and the run reports how many were admitted. With the partial unique
// index and the agenda lock in place, exactly one attempt per slot must
// succeed.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type SimConfig struct {
	APIBaseURL string
	Workers    int
	DoctorID   string
	Date       string
	Time       string
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, status int) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&om.Success, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.latencies = append(om.latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.latencies) == 0 {
		return 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.latencies))
	copy(latencies, om.latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p95
}

func main() {
	log.SetFlags(log.LstdFlags)

	cfg := SimConfig{}
	flag.StringVar(&cfg.APIBaseURL, "api", envOr("API_BASE_URL", "http://127.0.0.1:8080"), "API base URL")
	flag.IntVar(&cfg.Workers, "workers", 20, "concurrent booking attempts")
	flag.StringVar(&cfg.DoctorID, "doctor", "1", "doctor ID or slug")
	flag.StringVar(&cfg.Date, "date", time.Now().AddDate(0, 0, 1).Format("2006-01-02"), "appointment date")
	flag.StringVar(&cfg.Time, "time", "08:20", "appointment time HH:MM")
	flag.Parse()

	log.Printf("simulating %d concurrent bookings for doctor=%s %s %s",
		cfg.Workers, cfg.DoctorID, cfg.Date, cfg.Time)

	metrics := &OperationMetrics{}
	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	startGate := make(chan struct{})

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			<-startGate

			body, _ := json.Marshal(map[string]string{
				"doctor_id": cfg.DoctorID,
				"date":      cfg.Date,
				"time":      cfg.Time,
				"document":  fmt.Sprintf("sim-%d-%d", time.Now().UnixNano(), worker),
			})

			start := time.Now()
			resp, err := client.Post(cfg.APIBaseURL+"/appointments", "application/json", bytes.NewReader(body))
			latency := time.Since(start)

			if err != nil {
				metrics.Record(latency, 0)
				log.Printf("worker %d: request error: %v", worker, err)
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			metrics.Record(latency, resp.StatusCode)
		}(i)
	}

	close(startGate)
	wg.Wait()

	avg, min, max, p95 := metrics.Stats()

	fmt.Println()
	fmt.Printf("attempts:  %d\n", metrics.Total)
	fmt.Printf("admitted:  %d\n", metrics.Success)
	fmt.Printf("conflicts: %d\n", metrics.Conflict)
	fmt.Printf("errors:    %d\n", metrics.Error)
	fmt.Printf("latency:   avg=%s min=%s max=%s p95=%s\n", avg, min, max, p95)

	if metrics.Success != 1 {
		log.Printf("WARNING: expected exactly 1 admitted booking, got %d", metrics.Success)
		os.Exit(1)
	}
	log.Println("double-booking invariant held")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
