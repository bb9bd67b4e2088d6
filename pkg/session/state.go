// Package session holds the presentation state of the single analysis workspace
// and the store that drives it from analysis completions.
package session

import (
	"github.com/umputun/appscope/pkg/domain"
	"github.com/umputun/appscope/pkg/llm"
)

// State is everything the views need. At rest exactly one of Result or Error is set,
// while loading both are empty.
type State struct {
	Phase  Phase
	Token  uint64 // sequence number of the latest submission
	URL    string
	Result *domain.AnalysisResult
	Error  string
	Tab    domain.Tab
}

// Initial returns the state before any submission
func Initial() State {
	return State{Phase: PhaseIdle, Tab: domain.DefaultTab}
}

// Loading reports whether an analysis is in flight
func (s State) Loading() bool { return s.Phase == PhaseLoading }

// Event is an input of Reduce
type Event interface{ isEvent() }

// Submitted starts a new analysis
type Submitted struct {
	Token uint64
	URL   string
}

// Succeeded delivers the result of the submission with the same token
type Succeeded struct {
	Token  uint64
	Result *domain.AnalysisResult
}

// Failed delivers the failure of the submission with the same token
type Failed struct {
	Token   uint64
	Message string
}

// TabSelected switches the displayed facet of a ready result
type TabSelected struct {
	Tab domain.Tab
}

// Reset returns to idle
type Reset struct{}

func (Submitted) isEvent()   {}
func (Succeeded) isEvent()   {}
func (Failed) isEvent()      {}
func (TabSelected) isEvent() {}
func (Reset) isEvent()       {}

// Reduce returns the state after ev. It never mutates s.
// Completions with a token other than s.Token, and events not allowed in the current phase,
// return s unchanged.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Submitted:
		if e.Token <= s.Token {
			return s
		}
		// resubmission while loading restarts the loading phase
		if s.Phase != PhaseLoading && !canTransition(s.Phase, evSubmit) {
			return s
		}
		return State{Phase: PhaseLoading, Token: e.Token, URL: e.URL, Tab: domain.DefaultTab}

	case Succeeded:
		if e.Token != s.Token || e.Result == nil || !canTransition(s.Phase, evSucceed) {
			return s
		}
		return State{Phase: PhaseReady, Token: s.Token, URL: s.URL, Result: e.Result, Tab: domain.DefaultTab}

	case Failed:
		if e.Token != s.Token || !canTransition(s.Phase, evFail) {
			return s
		}
		msg := e.Message
		if msg == "" {
			msg = llm.UnexpectedMessage
		}
		return State{Phase: PhaseFailed, Token: s.Token, URL: s.URL, Error: msg, Tab: domain.DefaultTab}

	case TabSelected:
		if s.Phase != PhaseReady || s.Result == nil {
			return s
		}
		if _, err := domain.ParseTab(string(e.Tab)); err != nil {
			return s
		}
		s.Tab = e.Tab
		return s

	case Reset:
		if !canTransition(s.Phase, evReset) {
			return s
		}
		return State{Phase: PhaseIdle, Token: s.Token, Tab: domain.DefaultTab}
	}
	return s
}
