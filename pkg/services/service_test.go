package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeService struct {
	name    string
	initErr error
	rec     *recorder
}

func (f *fakeService) Init() error {
	f.rec.add(f.name + ":init")
	return f.initErr
}
func (f *fakeService) Run(ctx context.Context) { f.rec.add(f.name + ":run") }
func (f *fakeService) Stop()                   { f.rec.add(f.name + ":stop") }

func TestManager_StopsOnContextDone(t *testing.T) {
	rec := &recorder{}
	m := &Manager{log: nopLogger{}, signals: make(chan os.Signal, 1)}
	m.AddService(&fakeService{name: "a", rec: rec}, &fakeService{name: "b", rec: rec})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	stops := 0
	for _, e := range rec.list() {
		if e == "a:stop" || e == "b:stop" {
			stops++
		}
	}
	if stops != 2 {
		t.Fatalf("expected both services stopped, events: %v", rec.list())
	}
}

func TestManager_InitFailureStopsStartedServices(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	m := &Manager{log: nopLogger{}, signals: make(chan os.Signal, 1)}
	m.AddService(
		&fakeService{name: "a", rec: rec},
		&fakeService{name: "b", rec: rec, initErr: boom},
		&fakeService{name: "c", rec: rec},
	)

	err := m.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	events := rec.list()
	hasStop := func(name string) bool {
		for _, e := range events {
			if e == name+":stop" {
				return true
			}
		}
		return false
	}
	if !hasStop("a") {
		t.Errorf("a should be stopped: %v", events)
	}
	if hasStop("b") || hasStop("c") {
		t.Errorf("only started services are stopped: %v", events)
	}
	for _, e := range events {
		if e == "c:init" {
			t.Errorf("c must not be initialized: %v", events)
		}
	}
}
