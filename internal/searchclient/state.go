// Package searchclient turns a stream of query and category edits into
// debounced catalog searches. State changes go through Reduce, a pure
// transition function; Client runs its effects on a single goroutine.
package searchclient

import (
	"errors"
	"strings"

	"funstar-catalog/internal/models"
)

// ErrSearchFailed is the only error a caller ever sees. It is shown to users
// verbatim, so transport detail stays in the logs.
var ErrSearchFailed = errors.New("Failed to search. Please try again.") //nolint:staticcheck

// Phase is where the client is in a search cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseInFlight
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseInFlight:
		return "in-flight"
	case PhaseSettled:
		return "settled"
	}
	return "unknown"
}

// State is the view a UI renders.
type State struct {
	Phase     Phase
	Query     string
	Category  string
	Results   []models.Movie
	IsLoading bool
	Err       error

	token  uint64
	closed bool
}

// Initial is the state before any input.
func Initial() State {
	return State{Phase: PhaseIdle, Category: models.CategoryAll}
}

// Token identifies the search cycle a timer or response belongs to.
func (s State) Token() uint64 { return s.token }

// Closed reports whether the client has been torn down.
func (s State) Closed() bool { return s.closed }

// Event is an input to Reduce.
type Event interface{ event() }

type (
	QueryChanged    struct{ Query string }
	CategoryChanged struct{ Category string }
	TimerFired      struct{ Token uint64 }
	ResponseArrived struct {
		Token   uint64
		Results []models.Movie
		Err     error
	}
	Closed struct{}
)

func (QueryChanged) event()    {}
func (CategoryChanged) event() {}
func (TimerFired) event()      {}
func (ResponseArrived) event() {}
func (Closed) event()          {}

// Effect is work Reduce asks the driver to perform.
type Effect interface{ effect() }

type (
	StartTimer  struct{ Token uint64 }
	StopTimer   struct{}
	IssueSearch struct {
		Token    uint64
		Query    string
		Category string
	}
	CancelSearch struct{ Token uint64 }
)

func (StartTimer) effect()   {}
func (StopTimer) effect()    {}
func (IssueSearch) effect()  {}
func (CancelSearch) effect() {}

// Reduce applies ev to s. Timer and response events carrying a token other
// than the current one are stale and leave s unchanged.
func Reduce(s State, ev Event) (State, []Effect) {
	if s.closed {
		return s, nil
	}

	switch e := ev.(type) {
	case QueryChanged:
		s.Query = e.Query
		return restart(s)

	case CategoryChanged:
		s.Category = e.Category
		if strings.TrimSpace(s.Category) == "" {
			s.Category = models.CategoryAll
		}
		return restart(s)

	case TimerFired:
		if s.Phase != PhasePending || e.Token != s.token {
			return s, nil
		}
		s.Phase = PhaseInFlight
		s.IsLoading = true
		s.Err = nil
		return s, []Effect{IssueSearch{Token: s.token, Query: s.Query, Category: s.Category}}

	case ResponseArrived:
		if s.Phase != PhaseInFlight || e.Token != s.token {
			return s, nil
		}
		s.Phase = PhaseSettled
		s.IsLoading = false
		if e.Err != nil {
			s.Results = nil
			s.Err = ErrSearchFailed
		} else {
			s.Results = e.Results
			s.Err = nil
		}
		return s, nil

	case Closed:
		effects := abandon(s)
		s.closed = true
		s.IsLoading = false
		s.token++
		return s, effects
	}

	return s, nil
}

// restart begins a new cycle for the current query and category.
func restart(s State) (State, []Effect) {
	effects := abandon(s)
	s.token++

	if strings.TrimSpace(s.Query) == "" {
		s.Phase = PhaseIdle
		s.Results = nil
		s.IsLoading = false
		s.Err = nil
		return s, effects
	}

	s.Phase = PhasePending
	s.IsLoading = false
	return s, append(effects, StartTimer{Token: s.token})
}

// abandon releases whatever the current cycle holds.
func abandon(s State) []Effect {
	switch s.Phase {
	case PhasePending:
		return []Effect{StopTimer{}}
	case PhaseInFlight:
		return []Effect{CancelSearch{Token: s.token}}
	}
	return nil
}
