package whoa

import "sync"

var (
	defaultMu     sync.RWMutex
	defaultEngine = New()
)

// Default returns the process-wide engine used by the package-level functions.
func Default() *Engine {
	defaultMu.RLock()
	e := defaultEngine
	defaultMu.RUnlock()
	return e
}

// SetDefault replaces the process-wide engine; nil values are ignored. Handlers
// and schemas of the previous engine are not carried over.
func SetDefault(e *Engine) {
	if e == nil {
		return
	}
	defaultMu.Lock()
	defaultEngine = e
	defaultMu.Unlock()
}
