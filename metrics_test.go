package sessionkit

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsIncAndValue(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricSignInSuccess)
	m.Inc(MetricSignInSuccess)
	m.Inc(MetricRefreshJoined)

	if got := m.Value(MetricSignInSuccess); got != 2 {
		t.Fatalf("sign-in success = %d, want 2", got)
	}
	if got := m.Value(MetricRefreshJoined); got != 1 {
		t.Fatalf("refresh joined = %d, want 1", got)
	}
	if got := m.Value(MetricSignOut); got != 0 {
		t.Fatalf("sign-out = %d, want 0", got)
	}
}

func TestMetricsDisabledNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricSignInSuccess)
	m.Observe(MetricRequestLatency, 10*time.Millisecond)

	if got := m.Value(MetricSignInSuccess); got != 0 {
		t.Fatalf("disabled counter = %d, want 0", got)
	}

	s := m.Snapshot()
	if len(s.Counters) != 0 || len(s.Histograms) != 0 {
		t.Fatalf("disabled snapshot = %+v, want empty", s)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics

	m.Inc(MetricSignInSuccess)
	m.Observe(MetricRequestLatency, time.Millisecond)

	if m.Enabled() || m.LatencyEnabled() {
		t.Fatal("nil metrics must report disabled")
	}
	if got := m.Value(MetricSignInSuccess); got != 0 {
		t.Fatalf("nil Value = %d, want 0", got)
	}
}

func TestObserveRequiresLatencyEnabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: false})

	m.Observe(MetricRequestLatency, 10*time.Millisecond)

	s := m.Snapshot()
	if len(s.Histograms) != 0 {
		t.Fatalf("histograms = %+v, want none without latency enabled", s.Histograms)
	}
}

func TestObserveFillsBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricRequestLatency, 3*time.Millisecond)
	m.Observe(MetricRequestLatency, 30*time.Millisecond)
	m.Observe(MetricRequestLatency, 2*time.Second)

	buckets := m.Snapshot().Histograms[MetricRequestLatency]
	if len(buckets) != 8 {
		t.Fatalf("bucket count = %d, want 8", len(buckets))
	}
	if buckets[0] != 1 || buckets[3] != 1 || buckets[7] != 1 {
		t.Fatalf("buckets = %v", buckets)
	}
}

func TestBucketIndexBoundaries(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{5 * time.Millisecond, 0},
		{6 * time.Millisecond, 1},
		{10 * time.Millisecond, 1},
		{25 * time.Millisecond, 2},
		{50 * time.Millisecond, 3},
		{100 * time.Millisecond, 4},
		{250 * time.Millisecond, 5},
		{500 * time.Millisecond, 6},
		{501 * time.Millisecond, 7},
		{time.Minute, 7},
	}

	for _, tc := range cases {
		if got := bucketIndex(tc.d); got != tc.want {
			t.Fatalf("bucketIndex(%s) = %d, want %d", tc.d, got, tc.want)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricSignInSuccess)

	s := m.Snapshot()
	s.Counters[MetricSignInSuccess] = 99

	if got := m.Value(MetricSignInSuccess); got != 1 {
		t.Fatalf("counter mutated through snapshot: %d", got)
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				m.Inc(MetricRefreshSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRefreshSuccess); got != workers*perWorker {
		t.Fatalf("counter = %d, want %d", got, workers*perWorker)
	}
}
