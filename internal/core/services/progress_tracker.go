package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

var ErrTrackerStopped = errors.New("progress tracker is not running")

type TrackerState struct {
	Plans []domain.ReadingPlan `json:"plans"`
	Stats domain.UserStats     `json:"stats"`
}

func (s TrackerState) Clone() TrackerState {
	return TrackerState{
		Plans: domain.ClonePlans(s.Plans),
		Stats: s.Stats.Clone(),
	}
}

func (s TrackerState) Plan(id string) (domain.ReadingPlan, bool) {
	for _, p := range s.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return domain.ReadingPlan{}, false
}

// Change reports which parts of the state an event touched.
type Change struct {
	Plans bool
	Stats bool
}

func (c Change) Any() bool { return c.Plans || c.Stats }

type Event interface{ isEvent() }

type ToggleTask struct {
	PlanID string
	TaskID string
}

type UpdateName struct{ Name string }

type RecordRead struct{}

type AddPlan struct{ Plan domain.ReadingPlan }

type ResetState struct{ State TrackerState }

type readState struct{}

func (ToggleTask) isEvent() {}
func (UpdateName) isEvent() {}
func (RecordRead) isEvent() {}
func (AddPlan) isEvent()    {}
func (ResetState) isEvent() {}
func (readState) isEvent()  {}

// Reduce applies one event to state and returns the next state. The input
// is never mutated; untouched plans are shared with the result.
func Reduce(state TrackerState, ev Event, now time.Time) (TrackerState, Change) {
	switch e := ev.(type) {
	case ToggleTask:
		return reduceToggle(state, e, now)

	case UpdateName:
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = domain.DefaultUserName
		}
		next := state
		next.Stats = state.Stats.Clone()
		next.Stats.UserName = name
		return next, Change{Stats: true}

	case RecordRead:
		next := state
		next.Stats = state.Stats.Clone()
		next.Stats.ChaptersRead++
		return next, Change{Stats: true}

	case AddPlan:
		if _, exists := state.Plan(e.Plan.ID); exists {
			return state, Change{}
		}
		plan := e.Plan.Clone()
		plan.RecomputeProgress()
		next := state
		next.Plans = append(append(make([]domain.ReadingPlan, 0, len(state.Plans)+1), state.Plans...), plan)
		return next, Change{Plans: true}

	case ResetState:
		return e.State.Clone(), Change{Plans: true, Stats: true}
	}

	return state, Change{}
}

func reduceToggle(state TrackerState, e ToggleTask, now time.Time) (TrackerState, Change) {
	planIdx := -1
	for i, p := range state.Plans {
		if p.ID == e.PlanID {
			planIdx = i
			break
		}
	}
	if planIdx < 0 {
		return state, Change{}
	}

	taskIdx := state.Plans[planIdx].FindTask(e.TaskID)
	if taskIdx < 0 {
		return state, Change{}
	}

	plan := state.Plans[planIdx].Clone()
	wasCompleted := plan.Tasks[taskIdx].IsCompleted
	plan.Tasks[taskIdx].IsCompleted = !wasCompleted
	plan.RecomputeProgress()

	next := state
	next.Plans = make([]domain.ReadingPlan, len(state.Plans))
	copy(next.Plans, state.Plans)
	next.Plans[planIdx] = plan

	change := Change{Plans: true}
	if !wasCompleted {
		stats := state.Stats.Clone()
		stats.ChaptersRead++
		stats.History = append(stats.History, domain.HistoryEntry{
			Date:     now.Format(domain.DateLayout),
			Chapters: 1,
		})
		stats.Streak = domain.CalculateStreak(stats.History, now)
		next.Stats = stats
		change.Stats = true
	}

	return next, change
}

// StateObserver is notified on the tracker goroutine after every event that
// changed state. Implementations must not mutate the state they receive.
type StateObserver interface {
	Observe(ctx context.Context, state TrackerState, change Change)
}

type command struct {
	event Event
	reply chan TrackerState
}

// ProgressTracker owns the plans and stats. A single goroutine drains the
// mailbox and runs every event through Reduce in arrival order, so each
// event sees the state left by the one before it.
type ProgressTracker struct {
	state     TrackerState
	mailbox   chan command
	observers []StateObserver
	now       func() time.Time

	startOnce sync.Once
	done      chan struct{}
}

type TrackerOption func(*ProgressTracker)

func WithClock(now func() time.Time) TrackerOption {
	return func(t *ProgressTracker) { t.now = now }
}

func WithObserver(o StateObserver) TrackerOption {
	return func(t *ProgressTracker) { t.observers = append(t.observers, o) }
}

func NewProgressTracker(initial TrackerState, opts ...TrackerOption) *ProgressTracker {
	t := &ProgressTracker{
		state:   initial.Clone(),
		mailbox: make(chan command, 64),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *ProgressTracker) Start(ctx context.Context) {
	t.startOnce.Do(func() {
		go t.loop(ctx)
	})
}

func (t *ProgressTracker) loop(ctx context.Context) {
	log.Println("Progress Tracker started...")
	defer close(t.done)

	for {
		select {
		case cmd := <-t.mailbox:
			next, change := Reduce(t.state, cmd.event, t.now())
			t.state = next
			if change.Any() {
				for _, o := range t.observers {
					o.Observe(ctx, t.state, change)
				}
			}
			cmd.reply <- t.state.Clone()

		case <-ctx.Done():
			log.Println("Progress Tracker shutting down...")
			return
		}
	}
}

// Dispatch queues an event and waits until it has been applied, returning
// the resulting state.
func (t *ProgressTracker) Dispatch(ctx context.Context, ev Event) (TrackerState, error) {
	cmd := command{event: ev, reply: make(chan TrackerState, 1)}

	select {
	case t.mailbox <- cmd:
	case <-t.done:
		return TrackerState{}, ErrTrackerStopped
	case <-ctx.Done():
		return TrackerState{}, ctx.Err()
	}

	select {
	case state := <-cmd.reply:
		return state, nil
	case <-t.done:
		return TrackerState{}, ErrTrackerStopped
	case <-ctx.Done():
		return TrackerState{}, ctx.Err()
	}
}

func (t *ProgressTracker) Snapshot(ctx context.Context) (TrackerState, error) {
	return t.Dispatch(ctx, readState{})
}

func (t *ProgressTracker) ToggleTask(ctx context.Context, planID, taskID string) (TrackerState, error) {
	return t.Dispatch(ctx, ToggleTask{PlanID: planID, TaskID: taskID})
}

func (t *ProgressTracker) UpdateUserName(ctx context.Context, name string) (domain.UserStats, error) {
	state, err := t.Dispatch(ctx, UpdateName{Name: name})
	return state.Stats, err
}

func (t *ProgressTracker) RecordChapterRead(ctx context.Context) (domain.UserStats, error) {
	state, err := t.Dispatch(ctx, RecordRead{})
	return state.Stats, err
}

func (t *ProgressTracker) AddPlan(ctx context.Context, plan domain.ReadingPlan) (TrackerState, error) {
	return t.Dispatch(ctx, AddPlan{Plan: plan})
}

func (t *ProgressTracker) Reset(ctx context.Context, state TrackerState) (TrackerState, error) {
	return t.Dispatch(ctx, ResetState{State: state})
}
