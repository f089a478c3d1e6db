package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func reset(m *TimingMetric) {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
}

func TestTimingMetric_Record(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	st := m.Stats()
	if st.Count != 2 || st.AvgMs != 3 || st.MaxMs != 4 || st.TotalMs != 6 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestTimingMetric_Concurrent(t *testing.T) {
	m := newTimingMetric("concurrent")
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(d time.Duration) {
			defer wg.Done()
			m.Record(d)
		}(time.Duration(i) * time.Microsecond)
	}
	wg.Wait()

	st := m.Stats()
	if st.Count != 50 || st.MaxMs != 0.05 {
		t.Errorf("stats = %+v", st)
	}
}

func TestTimer(t *testing.T) {
	m := newTimingMetric("timer")
	done := Timer(m)
	time.Sleep(time.Millisecond)
	done()
	if st := m.Stats(); st.Count != 1 || st.MaxMs < 1 {
		t.Errorf("stats = %+v", st)
	}

	Timer(nil)() // nil metric is a no-op
}

func TestDisabled(t *testing.T) {
	defer func(saved bool) { enabled = saved }(enabled)
	enabled = false

	m := newTimingMetric("off")
	Timer(m)()
	m.Record(time.Second)
	if m.Stats().Count != 0 {
		t.Error("disabled metrics should not record")
	}
}

func TestAllTimingStats(t *testing.T) {
	for _, m := range all {
		reset(m)
	}
	defer reset(Redraw)

	Redraw.Record(time.Millisecond)
	stats := AllTimingStats()
	if len(stats) != 1 || stats[0].Name != "redraw" {
		t.Fatalf("stats = %+v", stats)
	}
	if s := stats[0].String(); !strings.HasPrefix(s, "redraw: n=1") {
		t.Errorf("String() = %q", s)
	}
}
