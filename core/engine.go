package core

import "errors"

// Engine gates the process-wide tracer state: the allocator and the
// floating-point environment. Construct one before building scenes; the
// handle is shared by every scene and viewport.
//
// The original implementation toggled denormals-flush-to-zero and acquired
// the large-page privilege here. Go does not expose the MXCSR register, so
// denormals keep their IEEE behavior (nothing flushes them to zero), and
// the allocator rounds arena blocks up so the OS can promote them.
type Engine struct {
	allocator Allocator
}

var ErrEngineRequired = errors.New("core: engine not initialized")

// Init prepares process-wide state and returns the engine handle.
func Init() *Engine {
	return &Engine{allocator: NewSystemAllocator()}
}

// InitWithAllocator substitutes a custom allocator (tests use a tracking
// implementation).
func InitWithAllocator(allocator Allocator) *Engine {
	return &Engine{allocator: allocator}
}

func (e *Engine) Allocator() Allocator {
	return e.allocator
}
