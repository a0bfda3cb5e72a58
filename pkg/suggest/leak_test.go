//go:build test

package suggest

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
)

var fragments = [][]string{
	{"p", "pr", "pri", "prin", "print", "printl", "println"},
	{"h", "ha", "has", "hash", "hashm", "hashma", "hashmap"},
	{"s", "st", "str", "stri", "strin", "string"},
	{"v", "ve", "vec", "vec!"},
}

func leakItems() []Item {
	keys := make([]string, 0, 2000)
	for i := 0; i < 500; i++ {
		keys = append(keys,
			fmt.Sprintf("println_%d", i), fmt.Sprintf("HashMap%d", i),
			fmt.Sprintf("string_from_%d", i), fmt.Sprintf("vec!%d", i))
	}
	return items(keys...)
}

// typing through each fragment re-ranks once per keystroke, like a session
func runSessions(ranker *FuzzyRanker, all []Item, history *History, n int) {
	for i := 0; i < n; i++ {
		for _, seq := range fragments {
			var last []Match
			for _, q := range seq {
				last = ranker.Rank(all, q)
			}
			if len(last) > 0 {
				history.Record(all[last[0].Index].FilterKey())
			}
		}
	}
}

func TestMemoryStableAcrossSessions(t *testing.T) {
	for _, iterations := range []int{10, 50, 200} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			all := leakItems()
			history := NewHistory(64)
			ranker := NewFuzzyRanker(history)
			runSessions(ranker, all, history, 1)

			var baseline runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&baseline)
			baselineGoroutines := runtime.NumGoroutine()

			runSessions(ranker, all, history, iterations)

			var final runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&final)

			memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
			t.Logf("iterations=%d mem_delta=%d bytes history=%d", iterations, memDelta, history.Len())

			if memDelta > 1<<20 {
				t.Errorf("heap grew by %d bytes", memDelta)
			}
			if d := runtime.NumGoroutine() - baselineGoroutines; d > 0 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", d)
			}
		})
	}
}

func TestMemoryConcurrentSessions(t *testing.T) {
	all := leakItems()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			history := NewHistory(32)
			runSessions(NewFuzzyRanker(history), all, history, 25)
		}()
	}
	wg.Wait()
}
