package util

import (
	"context"
	"sync"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// Recorder is a listener that keeps the progress of every iteration.
type Recorder struct {
	mu      sync.Mutex
	history []framework.SearchProgress
	final   *framework.SearchProgress
}

var _ framework.Listener = &Recorder{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SearchStarted(_ context.Context, progress framework.SearchProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history[:0], progress)
	r.final = nil
}

func (r *Recorder) IterationCompleted(_ context.Context, progress framework.SearchProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, progress)
}

func (r *Recorder) SearchCompleted(_ context.Context, progress framework.SearchProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.final = &progress
}

// History returns the progress at search start followed by one entry per
// iteration.
func (r *Recorder) History() []framework.SearchProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]framework.SearchProgress, len(r.history))
	copy(out, r.history)
	return out
}

// Final returns the progress reported when the search completed.
func (r *Recorder) Final() (framework.SearchProgress, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.final == nil {
		return framework.SearchProgress{}, false
	}
	return *r.final, true
}
