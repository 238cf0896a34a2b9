// README: Bench checks: health, metrics, prompt/search/directions endpoints, rate limiting, Redis window keys and throughput.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"mapchat/internal/modules/ratelimit"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Redis connect",
			Focus: "Redis reachable for the shared limiter",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "API: health",
			Focus: "server reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				status, body, latency, err := r.do(ctx, http.MethodGet, base+"/health", nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK || strings.TrimSpace(body) != "OK" {
					return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d body=%q", status, body)}
				}
				return Result{Status: "PASS", Latency: latency}
			},
		},
		{
			Name:  "API: metrics exposed",
			Focus: "prometheus exposition",
			Run: func(ctx context.Context, r *Runner) Result {
				status, body, latency, err := r.do(ctx, http.MethodGet, base+"/metrics", nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK || !strings.Contains(body, "go_goroutines") {
					return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: "PASS", Latency: latency}
			},
		},

		// Prompt pipeline
		llmCase("LLM: location prompt", base, "Where is the Eiffel Tower", func(resp map[string]any) string {
			if _, ok := resp["text"].(string); !ok {
				return "missing text"
			}
			if resp["map_html"] == nil && resp["web_url"] == nil {
				return "neither map_html nor web_url set"
			}
			return ""
		}),
		llmCase("LLM: directions prompt", base, "directions from Jakarta to Bandung", func(resp map[string]any) string {
			if resp["directions"] == nil {
				return "directions missing"
			}
			return ""
		}),
		httpCaseMethod("LLM: empty prompt -> 400", http.MethodPost, base+"/api/llm", map[string]any{"prompt": ""}, []int{400}, nil),
		httpCaseMethod("LLM: invalid json -> 400", http.MethodPost, base+"/api/llm", "{", []int{400}, nil),

		// Maps passthrough
		httpCaseMethod("Search: text query", http.MethodPost, base+"/api/search", map[string]any{"query": "Monas Jakarta"}, []int{200}, nil),
		httpCaseMethod("Search: empty query -> 400", http.MethodPost, base+"/api/search", map[string]any{"query": ""}, []int{400}, nil),
		httpCaseMethod("Directions: walking", http.MethodGet, base+"/api/directions?origin=Monas&destination=Kota+Tua&mode=walking", nil, []int{200}, nil),
		httpCaseMethod("Directions: invalid mode -> 400", http.MethodGet, base+"/api/directions?origin=a&destination=b&mode=teleport", nil, []int{400}, nil),
		httpCaseMethod("Directions: missing destination -> 400", http.MethodGet, base+"/api/directions?origin=a", nil, []int{400}, nil),

		// Rate limiting
		{
			Name:  "RateLimit: status endpoint",
			Focus: "window readable without consuming it",
			Run: func(ctx context.Context, r *Runner) Result {
				status, body, latency, err := r.do(ctx, http.MethodGet, base+"/ratelimit", nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				var resp struct {
					Limit        int `json:"limit"`
					Remaining    int `json:"remaining"`
					ResetSeconds int `json:"reset_seconds"`
				}
				if err := json.Unmarshal([]byte(body), &resp); err != nil {
					return Result{Status: "FAIL", Latency: latency, Note: err.Error()}
				}
				if resp.Limit <= 0 || resp.Remaining < 0 || resp.Remaining > resp.Limit {
					return Result{Status: "FAIL", Latency: latency, Note: body}
				}
				return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("remaining=%d/%d reset=%ds", resp.Remaining, resp.Limit, resp.ResetSeconds)}
			},
		},
		{
			Name:  "RateLimit: burst reaches 429",
			Focus: "sliding window enforced",
			Run: func(ctx context.Context, r *Runner) Result {
				return burstUntilLimited(ctx, r, base+"/api/directions?origin=a")
			},
		},
		{
			Name:  "RateLimit: redis window key",
			Focus: "shared limiter state in Redis",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				keys, err := r.redis.Keys(ctx, ratelimit.Key("*")).Result()
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if len(keys) == 0 {
					return Result{Status: "PENDING", Note: "no window keys; is RATE_LIMIT_BACKEND=redis?"}
				}
				ttl, err := r.redis.PTTL(ctx, keys[0]).Result()
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if ttl <= 0 {
					return Result{Status: "FAIL", Note: fmt.Sprintf("key %s has no ttl", keys[0])}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("keys=%d ttl=%s", len(keys), ttl)}
			},
		},

		// Performance
		{
			Name:  "Perf: health throughput",
			Focus: "router overhead",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/health")
			},
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, string, time.Duration, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = strings.NewReader(string(raw))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, "", 0, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw), time.Since(start), nil
}

func llmCase(name, base, prompt string, check func(map[string]any) string) TestCase {
	return TestCase{
		Name:  name,
		Focus: "prompt pipeline",
		Run: func(ctx context.Context, r *Runner) Result {
			status, body, latency, err := r.do(ctx, http.MethodPost, base+"/api/llm", map[string]any{"prompt": prompt})
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if status == http.StatusTooManyRequests {
				return Result{Status: "PENDING", Latency: latency, Note: "rate limited"}
			}
			if status != http.StatusOK {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d body=%s", status, body)}
			}
			var resp map[string]any
			if err := json.Unmarshal([]byte(body), &resp); err != nil {
				return Result{Status: "FAIL", Latency: latency, Note: err.Error()}
			}
			if msg := check(resp); msg != "" {
				return Result{Status: "FAIL", Latency: latency, Note: msg}
			}
			return Result{Status: "PASS", Latency: latency}
		},
	}
}

func httpCaseMethod(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			status, _, latency, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			note := fmt.Sprintf("status=%d", status)
			switch {
			case contains(okStatuses, status):
				return Result{Status: "PASS", Latency: latency, Note: note}
			case status == http.StatusTooManyRequests, contains(pendingStatuses, status):
				return Result{Status: "PENDING", Latency: latency, Note: note}
			default:
				return Result{Status: "FAIL", Latency: latency, Note: note}
			}
		},
	}
}

// burstUntilLimited sends cheap requests until one is rejected with 429 and
// checks the rate limit headers on the way.
func burstUntilLimited(ctx context.Context, r *Runner, url string) Result {
	for i := 1; i <= r.cfg.Burst; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		resp, err := r.httpc.Do(req)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.Header.Get("X-RateLimit-Limit") == "" {
			return Result{Status: "FAIL", Note: "missing X-RateLimit-Limit header"}
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return Result{Status: "PASS", Note: fmt.Sprintf("limited after %d requests, reset=%ss", i, resp.Header.Get("X-RateLimit-Reset"))}
		}
	}
	return Result{Status: "PENDING", Note: fmt.Sprintf("no 429 after %d requests; raise -burst above MAX_REQUESTS_PER_MINUTE", r.cfg.Burst)}
}

func perfLoad(ctx context.Context, r *Runner, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
				resp, err := r.httpc.Do(req)
				mu.Lock()
				if err != nil {
					errCount++
					mu.Unlock()
					continue
				}
				count++
				mu.Unlock()
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
