// Command sessionkit-loadtest drives concurrent authenticated requests
// through a sessionkit client against an in-process mock backend issuing
// short-lived access tokens, and reports how well the refresh path
// deduplicates under load.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-hclog"

	sessionkit "github.com/fincue/sessionkit"
	"github.com/fincue/sessionkit/httpapi"
)

func main() {
	var (
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 20000, "total requests to issue")
		accessTTL   = flag.Duration("access-ttl", 200*time.Millisecond, "mock backend access token lifetime")
		logLevel    = flag.String("log-level", "warn", "hclog level for the session client")
	)
	flag.Parse()

	if *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency and ops must be > 0")
		os.Exit(2)
	}

	backend := newMockBackend(*accessTTL)
	srv := httptest.NewServer(backend)
	defer srv.Close()
	fmt.Printf("mock backend at %s (access ttl %s)\n", srv.URL, *accessTTL)

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "loadtest",
		Level: hclog.LevelFromString(*logLevel),
	})

	client, err := sessionkit.New().
		WithAuthAPI(httpapi.New(srv.URL)).
		WithLogger(logger).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.SignIn(ctx, "loadtest@example.com", "hunter2"); err != nil {
		fmt.Fprintf(os.Stderr, "sign in: %v\n", err)
		os.Exit(1)
	}

	stats := runRequestPhase(ctx, client, *ops, *concurrency)

	client.SignOut(ctx)

	fmt.Println("---- results ----")
	printStats("request", stats)

	snapshot := client.MetricsSnapshot()
	refreshes := snapshot.Counters[sessionkit.MetricRefreshSuccess]
	joined := snapshot.Counters[sessionkit.MetricRefreshJoined]
	retried := snapshot.Counters[sessionkit.MetricRequestRetried]
	backendRefreshes := backend.refreshCalls.Load()

	fmt.Printf("refreshes=%d joined=%d retried=%d backend_refresh_calls=%d\n",
		refreshes, joined, retried, backendRefreshes)
	if refreshes+joined > 0 {
		fmt.Printf("dedup ratio: %.1f callers per network refresh\n",
			float64(refreshes+joined)/float64(max64(backendRefreshes, 1)))
	}
}

func runRequestPhase(ctx context.Context, client *sessionkit.Client, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}

				var out struct {
					OK bool `json:"ok"`
				}
				t0 := time.Now()
				err := client.Get(ctx, "/api/ping", &out)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

// mockBackend is a minimal stand-in for the Fincue API: it issues short-lived
// HS256 access tokens and rejects expired ones with 401 so the client's
// refresh path gets exercised continuously.
type mockBackend struct {
	secret       []byte
	accessTTL    time.Duration
	refreshCalls atomic.Int64
	mux          *http.ServeMux
}

func newMockBackend(accessTTL time.Duration) *mockBackend {
	b := &mockBackend{
		secret:    []byte("loadtest-secret"),
		accessTTL: accessTTL,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", b.handleToken)
	mux.HandleFunc("/auth/refresh", b.handleRefresh)
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/ping", b.handlePing)
	b.mux = mux

	return b
}

func (b *mockBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

func (b *mockBackend) handleToken(w http.ResponseWriter, _ *http.Request) {
	b.writePair(w)
}

func (b *mockBackend) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	b.refreshCalls.Add(1)
	b.writePair(w)
}

func (b *mockBackend) handlePing(w http.ResponseWriter, r *http.Request) {
	access := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !b.validAccess(access) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (b *mockBackend) writePair(w http.ResponseWriter) {
	access, err := b.signAccess()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{
		"access_token":  access,
		"refresh_token": "refresh-static",
		"token_type":    "bearer",
	})
}

func (b *mockBackend) signAccess() (string, error) {
	claims := jwt.MapClaims{
		"sub": "loadtest@example.com",
		"exp": time.Now().Add(b.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

func (b *mockBackend) validAccess(access string) bool {
	tok, err := jwt.Parse(access, func(*jwt.Token) (any, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	return err == nil && tok.Valid
}

func max64(v, floor int64) int64 {
	if v < floor {
		return floor
	}
	return v
}
