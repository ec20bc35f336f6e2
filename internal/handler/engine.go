package handler

import (
	"sync"

	"github.com/sakif/notekeeper/internal/service"
)

// SharedEngine serializes access to one service.Engine.
//
// WHY?
// service.Engine is single-actor and does no locking of its own, but
// net/http runs every request on its own goroutine. All handlers share one
// SharedEngine, and every engine call happens inside Do, so two requests
// can never interleave halfway through a mutation.
type SharedEngine struct {
	mu     sync.Mutex
	engine *service.Engine
}

// NewSharedEngine creates a new SharedEngine around engine.
func NewSharedEngine(engine *service.Engine) *SharedEngine {
	return &SharedEngine{engine: engine}
}

// Do runs fn with exclusive access to the engine.
func (s *SharedEngine) Do(fn func(e *service.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// Run is Do for calls that cannot fail.
func (s *SharedEngine) Run(fn func(e *service.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}
