package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/umputun/appscope/pkg/domain"
	"github.com/umputun/appscope/pkg/llm"
)

//go:generate moq -out mocks/analyzer.go -pkg mocks -skip-ensure -fmt goimports . Analyzer
//go:generate moq -out mocks/recorder.go -pkg mocks -skip-ensure -fmt goimports . Recorder

// CopyConfirmation is how long a copy action stays confirmed
const CopyConfirmation = 2 * time.Second

const defaultAnalysisTimeout = 120 * time.Second

// ErrNoResult is returned by operations that need a ready result
var ErrNoResult = errors.New("no analysis result")

// Analyzer produces an analysis for an app-store URL
type Analyzer interface {
	Analyze(ctx context.Context, appURL string) (*domain.AnalysisResult, error)
}

// Recorder receives metadata of every completed analysis attempt
type Recorder interface {
	RecordRun(ctx context.Context, run domain.Run) error
}

// Options for the Store
type Options struct {
	Timeout  time.Duration    // per analysis, 120s if zero
	Recorder Recorder         // optional
	Clock    func() time.Time // time.Now if nil
}

// Store owns the single presentation state. All changes go through Reduce.
type Store struct {
	analyzer Analyzer
	opts     Options

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc // cancels the in-flight analysis
	settled chan struct{}      // closed when the state leaves loading
	copied  map[domain.Tab]time.Time
	wg      sync.WaitGroup
}

// NewStore makes a store in the initial idle state
func NewStore(analyzer Analyzer, opts Options) *Store {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultAnalysisTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Store{analyzer: analyzer, opts: opts, state: Initial(), copied: map[domain.Tab]time.Time{}}
}

// Submit starts the analysis of appURL and returns the loading state right away.
// A previous in-flight analysis is cancelled and its completion ignored.
func (s *Store) Submit(appURL string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	token := s.state.Token + 1
	s.state = Reduce(s.state, Submitted{Token: token, URL: appURL})
	s.copied = map[domain.Tab]time.Time{}
	if s.settled == nil {
		s.settled = make(chan struct{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	started := s.opts.Clock()
	log.Printf("[INFO] analysis #%d started for %s", token, appURL)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res, err := s.analyze(ctx, appURL)
		s.complete(token, appURL, started, res, err)
	}()
	return s.state
}

func (s *Store) analyze(ctx context.Context, appURL string) (*domain.AnalysisResult, error) {
	t := timeout.New[*domain.AnalysisResult](timeout.Config{DefaultTimeout: s.opts.Timeout})
	res, err := t.Execute(ctx, s.opts.Timeout, func(ctx context.Context) (*domain.AnalysisResult, error) {
		return s.analyzer.Analyze(ctx, appURL)
	})
	if err == nil && res == nil {
		err = errors.New("analyzer returned no result")
	}
	if err != nil && llm.KindOf(err) == "" {
		err = llm.TransportError(err)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// complete applies the outcome of submission token and records the run
func (s *Store) complete(token uint64, appURL string, started time.Time, res *domain.AnalysisResult, err error) {
	var ev Event = Succeeded{Token: token, Result: res}
	if err != nil {
		ev = Failed{Token: token, Message: llm.UserMessage(err)}
	}

	s.mu.Lock()
	next := Reduce(s.state, ev)
	applied := next != s.state
	if applied {
		s.state = next
		s.settle()
	}
	s.mu.Unlock()

	run := domain.Run{
		ID:         uuid.NewString(),
		URL:        appURL,
		Store:      storeDomain(appURL),
		Token:      token,
		StartedAt:  started,
		FinishedAt: s.opts.Clock(),
	}
	run.Duration = run.FinishedAt.Sub(started)

	switch {
	case !applied:
		run.Status = domain.RunSuperseded
		log.Printf("[DEBUG] analysis #%d for %s superseded, outcome dropped", token, appURL)
	case err != nil:
		run.Status = domain.RunFailed
		run.ErrorKind = string(llm.KindOf(err))
		log.Printf("[WARN] analysis #%d for %s failed: %v", token, appURL, err)
	default:
		run.Status = domain.RunReady
		log.Printf("[INFO] analysis #%d for %s ready in %v", token, appURL, run.Duration.Round(time.Millisecond))
	}
	s.record(run)
}

func (s *Store) record(run domain.Run) {
	if s.opts.Recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.opts.Recorder.RecordRun(ctx, run); err != nil {
		log.Printf("[WARN] can't record run %s: %v", run.ID, err)
	}
}

// settle releases long-poll waiters and the in-flight context, must be called under lock
func (s *Store) settle() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.settled != nil {
		close(s.settled)
		s.settled = nil
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Wait blocks while an analysis is in flight, until it settles or ctx is done
func (s *Store) Wait(ctx context.Context) State {
	s.mu.Lock()
	ch, st := s.settled, s.state
	s.mu.Unlock()
	if ch == nil || !st.Loading() {
		return st
	}

	select {
	case <-ch:
	case <-ctx.Done():
	}
	return s.Snapshot()
}

// SelectTab switches the displayed facet, only when a result is ready
func (s *Store) SelectTab(tab domain.Tab) error {
	if _, err := domain.ParseTab(string(tab)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != PhaseReady {
		return ErrNoResult
	}
	s.state = Reduce(s.state, TabSelected{Tab: tab})
	return nil
}

// Reset cancels any in-flight analysis and returns to idle
func (s *Store) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, Reset{})
	s.settle()
	s.copied = map[domain.Tab]time.Time{}
	return s.state
}

// MarkCopied starts the copy confirmation of a document tab and returns its exact markdown source
func (s *Store) MarkCopied(tab domain.Tab) (string, error) {
	if !tab.IsDocument() {
		return "", fmt.Errorf("tab %q has no markdown document", tab)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != PhaseReady || s.state.Result == nil {
		return "", ErrNoResult
	}
	doc, _ := s.state.Result.Markdown(tab)
	s.copied[tab] = s.opts.Clock()
	return doc, nil
}

// Copied reports whether the copy confirmation of tab is still showing
func (s *Store) Copied(tab domain.Tab) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.copied[tab]
	return ok && s.opts.Clock().Sub(ts) < CopyConfirmation
}

// Close cancels the in-flight analysis and waits for its goroutine
func (s *Store) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// storeDomain returns the registrable domain of an app-store URL, e.g. apple.com
func storeDomain(appURL string) string {
	u, err := url.Parse(appURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}
