package service

import (
	"strconv"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/basel-ax/ailogo/internal/domain"
)

// Result is a successful generation as seen by downstream readers.
type Result struct {
	AttemptID uint64
	Image     domain.GeneratedImageRef
	Request   domain.GenerationRequest
}

// ResultHolder keeps successful results for the session, keyed by attempt id,
// and remembers the most recent one. Entries never expire.
type ResultHolder struct {
	store *cache.Cache

	mu     sync.RWMutex
	latest *Result
}

// NewResultHolder creates an empty holder.
func NewResultHolder() *ResultHolder {
	return &ResultHolder{store: cache.New(cache.NoExpiration, 0)}
}

// Put records r under its attempt id and makes it the latest result.
func (h *ResultHolder) Put(r Result) {
	h.store.Set(resultKey(r.AttemptID), r, cache.NoExpiration)

	h.mu.Lock()
	h.latest = &r
	h.mu.Unlock()
}

// Get returns the result stored for attemptID.
func (h *ResultHolder) Get(attemptID uint64) (Result, bool) {
	v, ok := h.store.Get(resultKey(attemptID))
	if !ok {
		return Result{}, false
	}
	r, ok := v.(Result)
	return r, ok
}

// Latest returns the last result written, if any.
func (h *ResultHolder) Latest() (Result, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		return Result{}, false
	}
	return *h.latest, true
}

func resultKey(attemptID uint64) string {
	return "attempt:" + strconv.FormatUint(attemptID, 10)
}
