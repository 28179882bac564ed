// Package termination provides external stop requests for a search run.
// Triggers are polled between evaluations, never mid-execution.
package termination

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// Manager is triggered as soon as one of its triggers is.
type Manager struct {
	mu       sync.RWMutex
	triggers []framework.TerminationTrigger
}

var _ framework.TerminationTrigger = &Manager{}

func NewManager(triggers ...framework.TerminationTrigger) *Manager {
	return &Manager{triggers: triggers}
}

func (m *Manager) Add(trigger framework.TerminationTrigger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers = append(m.triggers, trigger)
}

func (m *Manager) IsTriggered() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.triggers {
		if t.IsTriggered() {
			return true
		}
	}
	return false
}

// ContextTrigger fires once its context is done.
type ContextTrigger struct {
	ctx context.Context
}

var _ framework.TerminationTrigger = ContextTrigger{}

func NewContextTrigger(ctx context.Context) ContextTrigger {
	return ContextTrigger{ctx: ctx}
}

func (t ContextTrigger) IsTriggered() bool {
	return t.ctx.Err() != nil
}

// SignalTrigger fires when the process receives one of the given signals
// (os.Interrupt when none are given) or when the parent context is done.
type SignalTrigger struct {
	ctx  context.Context
	stop context.CancelFunc
}

var _ framework.TerminationTrigger = &SignalTrigger{}

func NewSignalTrigger(parent context.Context, signals ...os.Signal) *SignalTrigger {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt}
	}
	ctx, stop := signal.NotifyContext(parent, signals...)
	return &SignalTrigger{ctx: ctx, stop: stop}
}

func (t *SignalTrigger) IsTriggered() bool {
	return t.ctx.Err() != nil
}

// Stop releases the signal registration. The trigger stays fired if it
// already was.
func (t *SignalTrigger) Stop() {
	t.stop()
}
