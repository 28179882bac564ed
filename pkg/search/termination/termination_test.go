package termination_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/sbst-go/sbst/pkg/search/termination"
)

type flag bool

func (f *flag) IsTriggered() bool { return bool(*f) }

func TestManager(t *testing.T) {
	var first, second flag
	m := termination.NewManager(&first)
	m.Add(&second)

	if m.IsTriggered() {
		t.Fatalf("no trigger fired yet")
	}
	second = true
	if !m.IsTriggered() {
		t.Errorf("any fired trigger must fire the manager")
	}
	if termination.NewManager().IsTriggered() {
		t.Errorf("an empty manager never fires")
	}
}

func TestContextTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	trigger := termination.NewContextTrigger(ctx)
	if trigger.IsTriggered() {
		t.Fatalf("live context must not fire")
	}
	cancel()
	if !trigger.IsTriggered() {
		t.Errorf("cancelled context must fire")
	}
}

func TestSignalTrigger(t *testing.T) {
	trigger := termination.NewSignalTrigger(context.Background(), syscall.SIGUSR1)
	defer trigger.Stop()

	if trigger.IsTriggered() {
		t.Fatalf("no signal received yet")
	}
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("send signal: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !trigger.IsTriggered() {
		if time.Now().After(deadline) {
			t.Fatalf("signal did not fire the trigger")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSignalTriggerFollowsParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	trigger := termination.NewSignalTrigger(ctx, syscall.SIGUSR2)
	defer trigger.Stop()

	cancel()
	if !trigger.IsTriggered() {
		t.Errorf("cancelled parent must fire the trigger")
	}
}
