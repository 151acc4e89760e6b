package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	Endpoint           string
	Total              int
	Rate               int
	Concurrency        int
	Clients            int
	DuplicationPercent int
}

func parseFlags() *Config {
	c := &Config{}
	flag.StringVar(&c.Endpoint, "endpoint", "", "Target URL (required)")
	flag.IntVar(&c.Total, "total", 10000, "Total requests")
	flag.IntVar(&c.Rate, "rate", 2000, "Requests per second")
	flag.IntVar(&c.Concurrency, "concurrency", 0, "Worker count (0=auto)")
	flag.IntVar(&c.Clients, "clients", 20, "Distinct client ids to spread leads over")
	flag.IntVar(&c.DuplicationPercent, "duplication-percent", 0, "Duplication percent (0 = no duplicates)")
	flag.Parse()

	if c.Endpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: -endpoint is required")
		flag.Usage()
		os.Exit(1)
	}

	if c.Concurrency == 0 {
		c.Concurrency = c.Rate / 20 // Auto-scale workers
		if c.Concurrency < 50 {
			c.Concurrency = 50
		}
	}

	if c.Clients < 1 {
		c.Clients = 1
	}

	if c.DuplicationPercent > 100 {
		c.DuplicationPercent = 100
	} else if c.DuplicationPercent < 0 {
		c.DuplicationPercent = 0
	}

	return c
}

type Stats struct {
	ok      uint64
	errors  uint64
	latency int64 // microseconds
}

type LeadPool struct {
	mu  sync.RWMutex
	buf []map[string]any
	max int
}

func NewLeadPool(max int) *LeadPool {
	return &LeadPool{buf: make([]map[string]any, 0, max), max: max}
}

func (p *LeadPool) Add(lead map[string]any) {
	clone := cloneLead(lead)
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) >= p.max {
		p.buf = p.buf[1:]
	}
	p.buf = append(p.buf, clone)
}

func (p *LeadPool) GetRandom(rng *rand.Rand) (map[string]any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.buf) == 0 {
		return nil, false
	}
	idx := rng.Intn(len(p.buf))
	return cloneLead(p.buf[idx]), true
}

func (s *Stats) AddOK(duration time.Duration) {
	atomic.AddUint64(&s.ok, 1)
	atomic.AddInt64(&s.latency, duration.Microseconds())
}

func (s *Stats) AddError() {
	atomic.AddUint64(&s.errors, 1)
}

func (s *Stats) StartLogger(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var lastOK, lastErr uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok := atomic.LoadUint64(&s.ok)
			errs := atomic.LoadUint64(&s.errors)
			latTotal := atomic.LoadInt64(&s.latency)

			curOK := ok - lastOK
			curErr := errs - lastErr
			lastOK, lastErr = ok, errs

			avgLat := 0.0
			if ok > 0 {
				avgLat = float64(latTotal) / float64(ok) / 1000.0
			}

			log.Printf("[STATS] 1s -> OK: %d | ERR: %d | AvgLat: %.2fms | Total OK: %d", curOK, curErr, avgLat, ok)
		}
	}
}

func main() {
	cfg := parseFlags()
	stats := &Stats{}
	pool := NewLeadPool(10000)

	// High-performance HTTP Client
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency,
			MaxIdleConnsPerHost: cfg.Concurrency, // Critical: Keep as many connections open as there are workers.
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	log.Printf("Starting Load Test: Target=%s Rate=%d/s Total=%d Workers=%d Clients=%d", cfg.Endpoint, cfg.Rate, cfg.Total, cfg.Concurrency, cfg.Clients)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stats Logger
	go stats.StartLogger(ctx)

	// Job Queue
	jobs := make(chan struct{}, cfg.Rate*2)
	var wg sync.WaitGroup
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rngs := make([]*rand.Rand, cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		rngs[i] = rand.New(rand.NewSource(rng.Int63()))
	}

	// Workers
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go startWorker(client, cfg, jobs, stats, pool, rngs[i], &wg)
	}

	// Rate Limiter (Main Loop)
	remaining := cfg.Total
	for remaining > 0 {
		start := time.Now()
		batch := cfg.Rate
		if remaining < batch {
			batch = remaining
		}

		for i := 0; i < batch; i++ {
			jobs <- struct{}{}
		}
		remaining -= batch

		elapsed := time.Since(start)
		if elapsed < time.Second {
			time.Sleep(time.Second - elapsed)
		}
	}

	close(jobs)
	wg.Wait()

	log.Printf("DONE. Total OK: %d | Total Errors: %d", atomic.LoadUint64(&stats.ok), atomic.LoadUint64(&stats.errors))
}

func startWorker(client *http.Client, cfg *Config, jobs <-chan struct{}, stats *Stats, pool *LeadPool, rng *rand.Rand, wg *sync.WaitGroup) {
	defer wg.Done()

	headers := http.Header{"Content-Type": []string{"application/json"}}

	for range jobs {
		lead := pickLead(rng, pool, cfg.DuplicationPercent, cfg.Clients)
		start := time.Now()

		err := sendLead(client, cfg.Endpoint, lead, headers)
		if err != nil {
			stats.AddError()
		} else {
			stats.AddOK(time.Since(start))
		}
	}
}

func sendLead(client *http.Client, url string, data any, headers http.Header) error {
	body, _ := json.Marshal(data)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header = headers

	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	// Performance Hack: Read and discard the Body so the connection can be reused (Keep-Alive)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http status: %d", resp.StatusCode)
	}
	return nil
}

var (
	sources   = []string{"facebook", "google", "instagram", "tiktok", "organic", "Orgânico"}
	campaigns = []string{"spring-sale", "brand-awareness", "retargeting", "launch"}
	adSets    = []string{"lookalike-1", "interests-br", "broad", "remarketing-30d"}
	ads       = []string{"video-a", "video-b", "carousel", "static-1"}
	keywords  = []string{"plano de saúde", "seguro auto", "consórcio", "curso online"}
	devices   = []string{"mobile", "desktop", "tablet"}
	browsers  = []string{"Chrome", "Safari", "Firefox", "Edge", "Samsung Internet"}
	cities    = []string{"São Paulo", "Rio de Janeiro", "Belo Horizonte", "Curitiba", "Porto Alegre"}
	regions   = []string{"SP", "RJ", "MG", "PR", "RS"}
	names     = []string{"Maria Silva", "João Souza", "Ana Costa", "Pedro Lima", "Carla Nunes"}
)

func pickLead(rng *rand.Rand, pool *LeadPool, dupPercent, clients int) map[string]any {
	if dupPercent > 0 && rng.Intn(100) < dupPercent {
		if lead, ok := pool.GetRandom(rng); ok {
			return lead
		}
	}
	lead := generateRandomLead(rng, clients)
	pool.Add(lead)
	return lead
}

func generateRandomLead(rng *rand.Rand, clients int) map[string]any {
	source := sources[rng.Intn(len(sources))]
	city := rng.Intn(len(cities))

	lead := map[string]any{
		"name":      names[rng.Intn(len(names))],
		"phone":     fmt.Sprintf("5511%08d", rng.Intn(100000000)),
		"client_id": rng.Intn(clients),
		"source":    source,
		"device":    devices[rng.Intn(len(devices))],
		"browser":   browsers[rng.Intn(len(browsers))],
		"timestamp": time.Now().Unix() - int64(rng.Intn(60)), // Last 60 seconds
		"location": map[string]any{
			"city":   cities[city],
			"region": regions[city],
		},
	}

	// Paid leads carry the ad hierarchy; organic ones arrive bare.
	if source != "organic" && source != "Orgânico" {
		lead["campaign"] = campaigns[rng.Intn(len(campaigns))]
		if rng.Intn(10) > 1 { // ad-set and ad are sometimes missing
			lead["ad_set"] = adSets[rng.Intn(len(adSets))]
			lead["ad"] = ads[rng.Intn(len(ads))]
		}
		if source == "google" {
			lead["keyword"] = keywords[rng.Intn(len(keywords))]
		}
	}

	return lead
}

func cloneLead(lead map[string]any) map[string]any {
	if lead == nil {
		return nil
	}
	clone := make(map[string]any, len(lead))
	for k, v := range lead {
		switch val := v.(type) {
		case []string:
			cpy := append([]string(nil), val...)
			clone[k] = cpy
		case map[string]any:
			nested := make(map[string]any, len(val))
			for nk, nv := range val {
				nested[nk] = nv
			}
			clone[k] = nested
		default:
			clone[k] = v
		}
	}
	return clone
}
