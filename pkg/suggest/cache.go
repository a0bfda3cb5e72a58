package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

const historyMatchBonus = 20

// History remembers recently accepted filter keys so they rank above equal
// matches the next time. Least recently used keys are evicted past maxKeys.
// It only reorders matches, never adds or removes them.
type History struct {
	accessTime  map[string]int64
	accessCount int64
	maxKeys     int
	mu          sync.RWMutex
}

func NewHistory(maxKeys int) *History {
	return &History{
		accessTime: make(map[string]int64, maxKeys),
		maxKeys:    maxKeys,
	}
}

// Record marks key as accepted just now.
func (h *History) Record(key string) {
	if h == nil || h.maxKeys <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.accessTime[key]; !ok && len(h.accessTime) >= h.maxKeys {
		h.evictLRU()
	}
	h.accessTime[key] = h.nextAccessTime()
}

// Bonus is the score added to a match on key.
func (h *History) Bonus(key string) int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.accessTime[key]; ok {
		return historyMatchBonus
	}
	return 0
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.accessTime)
}

func (h *History) nextAccessTime() int64 {
	h.accessCount++
	return h.accessCount
}

func (h *History) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64
	found := false

	for key, accessTime := range h.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
			found = true
		}
	}

	if found {
		delete(h.accessTime, oldestKey)
		log.Debugf("Evicted '%s' from completion history", oldestKey)
	}
}
