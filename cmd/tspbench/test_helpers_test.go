package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/omarbz2001/MA-PCM/internal/session"
	"github.com/omarbz2001/MA-PCM/internal/store"
	"github.com/omarbz2001/MA-PCM/internal/trial"
)

// memStore is an in-memory Store used to test persistence paths without
// touching a database file.
type memStore struct {
	sessions   map[int64]*session.Session
	nextID     int64
	saveErr    error
	getErr     error
	listErr    error
	closed     bool
	openErr    error // returned by the factory, not the store
	savedOrder []int64
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[int64]*session.Session), nextID: 1}
}

func (m *memStore) SaveSession(s *session.Session) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	id := m.nextID
	m.nextID++
	stored := *s
	stored.ID = id
	m.sessions[id] = &stored
	m.savedOrder = append(m.savedOrder, id)
	return id, nil
}

func (m *memStore) GetSession(id int64) (*session.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %d not found", id)
	}
	return s, nil
}

func (m *memStore) ListSessions(limit int) ([]*session.Session, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]int64, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	var out []*session.Session
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		out = append(out, m.sessions[id])
	}
	return out, nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

// useMemStore swaps the store factory for the duration of one test.
func useMemStore(t *testing.T, m *memStore) {
	t.Helper()
	orig := newStoreFunc
	newStoreFunc = func() (store.Store, error) {
		if m.openErr != nil {
			return nil, m.openErr
		}
		return m, nil
	}
	t.Cleanup(func() { newStoreFunc = orig })
}

// fakeNotifier records every delivered event.
type fakeNotifier struct {
	events   []string
	messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, eventType string, message string) {
	f.events = append(f.events, eventType)
	f.messages = append(f.messages, message)
}

// writeSolverScript drops an executable stub solver into dir.
func writeSolverScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "solver.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("Failed to write solver script: %v", err)
	}
	return path
}

// writeTSPFile drops a small TSPLIB instance into dir.
func writeTSPFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "NAME: dj38\nTYPE: TSP\nDIMENSION: 38\nEOF\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write TSP file: %v", err)
	}
	return path
}

func storedSession(id int64, createdAt time.Time, threads []int, times []float64) *session.Session {
	s := &session.Session{
		ID:           id,
		CreatedAt:    createdAt,
		TSPFile:      "dj38.tsp",
		Cities:       38,
		SolverPath:   "./parallel_tsp",
		Runner:       "local",
		ThreadCounts: threads,
		Times:        times,
	}
	for i := range threads {
		s.Results = append(s.Results, trial.Result{Threads: threads[i], Seconds: times[i]})
	}
	return s
}

// executeCommand executes a cobra command and returns its output.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetFlags(root)
	// Mock exit
	oldExit := exit
	exit = func(code int) {
		if code != 0 {
			panic(fmt.Sprintf("exit-%d", code))
		}
	}
	defer func() { exit = oldExit }()
	defer func() {
		if r := recover(); r != nil {
			if s, ok := r.(string); ok && strings.HasPrefix(s, "exit-") {
				// This is an expected exit, don't re-panic
				return
			}
			panic(r) // Re-panic actual panics
		}
	}()
	root.SetArgs(args)
	b := new(bytes.Buffer)
	root.SetOut(b)
	root.SetErr(b)
	// Mock Stdin to avoid hanging on interactive prompts
	root.SetIn(bytes.NewBufferString(""))
	err := root.Execute()
	return b.String(), err
}

// resetFlags resets all flags to their default values.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
