package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

type jobStatus string

const (
	jobKindLogin jobKind = "login"
	jobKindAsk   jobKind = "ask"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

// jobRunner does the blocking part of an action off the update loop. The
// returned message is delivered back to Update; the error only feeds the
// job log and status badges.
type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
}

func newJobBus() *jobBus {
	return &jobBus{}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		slog.Debug("job started", "id", id, "kind", kind)
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		payload, err := runner(context.Background())
		return jobResultEnvelope{Snapshot: finishSnapshot(startSnapshot, err), Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}

func finishSnapshot(start jobSnapshot, err error) jobSnapshot {
	snapshot := start
	snapshot.CompletedAt = time.Now()
	snapshot.Duration = snapshot.CompletedAt.Sub(start.StartedAt)
	if err != nil {
		snapshot.Status = jobStatusFailed
		snapshot.Err = err.Error()
		slog.Warn("job failed", "id", snapshot.ID, "kind", snapshot.Kind, "duration", snapshot.Duration, "err", err)
	} else {
		snapshot.Status = jobStatusSucceeded
		slog.Info("job finished", "id", snapshot.ID, "kind", snapshot.Kind, "duration", snapshot.Duration)
	}
	return snapshot
}
