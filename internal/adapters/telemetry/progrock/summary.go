package progrock

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*Summary)(nil)

const (
	stageRunning = "running"
	stageDone    = "done"
	stageCached  = "cached"
	stageFailed  = "failed"
)

// stageState is the last known state of one vertex.
type stageState struct {
	name      string
	status    string
	started   time.Time
	completed time.Time
	err       string
}

// Summary is a progrock.Writer that tracks vertex updates and prints one line
// per stage when closed.
type Summary struct {
	mu     sync.Mutex
	out    io.Writer
	order  []string
	stages map[string]*stageState
	closed bool
}

// NewSummary creates a Summary rendering to out.
func NewSummary(out io.Writer) *Summary {
	return &Summary{
		out:    out,
		stages: make(map[string]*stageState),
	}
}

// WriteStatus records the vertex states carried by update.
func (s *Summary) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range update.Vertexes {
		st, ok := s.stages[v.Id]
		if !ok {
			st = &stageState{status: stageRunning}
			s.stages[v.Id] = st
			s.order = append(s.order, v.Id)
		}
		st.name = v.Name
		if v.Started != nil {
			st.started = v.Started.AsTime()
		}
		switch {
		case v.Error != nil:
			st.status = stageFailed
			st.err = *v.Error
		case v.Cached:
			st.status = stageCached
		case v.Completed != nil:
			st.status = stageDone
		}
		if v.Completed != nil {
			st.completed = v.Completed.AsTime()
		}
	}
	return nil
}

// Close prints the summary. Later calls are no-ops.
func (s *Summary) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || len(s.order) == 0 {
		s.closed = true
		return nil
	}
	s.closed = true

	var failed, cached int
	for _, id := range s.order {
		st := s.stages[id]
		line := fmt.Sprintf("  %-8s %-7s", st.name, st.status)
		if !st.started.IsZero() && !st.completed.IsZero() {
			line += fmt.Sprintf(" %.2fs", st.completed.Sub(st.started).Seconds())
		}
		if st.err != "" {
			line += ": " + st.err
		}
		if _, err := fmt.Fprintln(s.out, line); err != nil {
			return err
		}

		switch st.status {
		case stageFailed:
			failed++
		case stageCached:
			cached++
		}
	}

	_, err := fmt.Fprintf(s.out, "precompile: %d stages, %d cached, %d failed\n", len(s.order), cached, failed)
	return err
}
