package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// These tests run against a live mapchat-api. They are skipped unless
// MAPCHAT_API_BASE_URL is set, either in the environment or in a .env file.

type finalResponse struct {
	Text       string          `json:"text"`
	Locations  []locationEntry `json:"locations"`
	Directions *struct {
		Status string            `json:"status"`
		Routes []json.RawMessage `json:"routes"`
	} `json:"directions"`
	MapHTML *string `json:"map_html"`
	WebURL  *string `json:"web_url"`
}

type locationEntry struct {
	Status string            `json:"status"`
	Places []json.RawMessage `json:"places"`
	WebURL *string           `json:"web_url"`
}

func TestPromptLocationEndToEnd(t *testing.T) {
	t.Logf("[TEST LOG] starting TestPromptLocationEndToEnd")
	client, baseURL := liveAPI(t)

	status, body := callLLM(t, client, baseURL, "Where is the Eiffel Tower?")
	if status != http.StatusOK {
		t.Fatalf("expected %d, got %d, body=%s", http.StatusOK, status, string(body))
	}

	var resp finalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response: %v, raw=%s", err, string(body))
	}
	if strings.TrimSpace(resp.Text) == "" {
		t.Fatalf("expected non-empty text, raw=%s", string(body))
	}
	if len(resp.Locations) != 1 {
		t.Fatalf("expected one location result, got %d", len(resp.Locations))
	}

	loc := resp.Locations[0]
	switch loc.Status {
	case "OK":
		if resp.MapHTML == nil || !strings.Contains(*resp.MapHTML, "google.maps.Map") {
			t.Fatalf("OK result without embedded map, raw=%s", string(body))
		}
	case "WEB_FALLBACK":
		if resp.WebURL == nil || !strings.HasPrefix(*resp.WebURL, "https://www.google.com/maps/search/") {
			t.Fatalf("web fallback without web_url, raw=%s", string(body))
		}
	default:
		t.Fatalf("unexpected location status %q", loc.Status)
	}
	t.Logf("[TEST LOG] text=%q status=%s", resp.Text, loc.Status)
}

func TestPromptDirectionsEndToEnd(t *testing.T) {
	t.Logf("[TEST LOG] starting TestPromptDirectionsEndToEnd")
	client, baseURL := liveAPI(t)

	status, body := callLLM(t, client, baseURL, "directions from Jakarta to Bandung")
	if status != http.StatusOK {
		t.Fatalf("expected %d, got %d, body=%s", http.StatusOK, status, string(body))
	}

	var resp finalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response: %v, raw=%s", err, string(body))
	}
	if resp.Directions == nil {
		t.Fatalf("expected directions in response, raw=%s", string(body))
	}
	if resp.Directions.Status == "OK" && len(resp.Directions.Routes) == 0 {
		t.Fatalf("OK directions without routes")
	}
	t.Logf("[TEST LOG] directions status=%s routes=%d", resp.Directions.Status, len(resp.Directions.Routes))
}

func TestRateLimitHeadersAndRedisWindow(t *testing.T) {
	t.Logf("[TEST LOG] starting TestRateLimitHeadersAndRedisWindow")
	client, baseURL := liveAPI(t)

	// A missing destination is rejected by the handler but still counted.
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/directions?origin=a", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("call /api/directions: %v", err)
	}
	_ = resp.Body.Close()

	limit, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	if err != nil || limit <= 0 {
		t.Fatalf("bad X-RateLimit-Limit header %q", resp.Header.Get("X-RateLimit-Limit"))
	}
	remaining, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining"))
	if err != nil || remaining < 0 || remaining >= limit {
		t.Fatalf("bad X-RateLimit-Remaining header %q (limit %d)", resp.Header.Get("X-RateLimit-Remaining"), limit)
	}

	addr := strings.TrimSpace(os.Getenv("MAPCHAT_TEST_REDIS_ADDR"))
	if addr == "" {
		t.Logf("[TEST LOG] MAPCHAT_TEST_REDIS_ADDR not set; skipping redis window check")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	keys, err := rdb.Keys(ctx, "ratelimit:*").Result()
	if err != nil {
		t.Fatalf("list window keys: %v", err)
	}
	if len(keys) == 0 {
		t.Fatalf("no ratelimit:* keys in redis at %s; is RATE_LIMIT_BACKEND=redis?", addr)
	}
	t.Logf("[TEST LOG] window keys: %v", keys)
}

func liveAPI(t *testing.T) (*http.Client, string) {
	t.Helper()
	loadDotEnv(t)

	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("MAPCHAT_API_BASE_URL")), "/")
	if baseURL == "" {
		t.Skip("MAPCHAT_API_BASE_URL not set")
	}
	client := &http.Client{Timeout: 60 * time.Second}
	waitForAPIReady(t, client, baseURL)
	return client, baseURL
}

func callLLM(t *testing.T, client *http.Client, baseURL, prompt string) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/llm", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("call /api/llm: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		t.Skipf("rate limited by %s; retry after %ss", baseURL, resp.Header.Get("X-RateLimit-Reset"))
	}

	return resp.StatusCode, body
}

func waitForAPIReady(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/health", nil)
		if err == nil {
			resp, err := client.Do(req)
			if err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return
				}
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("api not ready: GET %s/health did not return 200 in time", baseURL)
}

func loadDotEnv(t *testing.T) {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	path := ""
	for i := 0; i < 8; i++ {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if path == "" {
		return
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		k := strings.TrimSpace(parts[0])
		v := strings.TrimSpace(parts[1])
		if k == "" {
			continue
		}
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		_ = os.Setenv(k, v)
	}
}
