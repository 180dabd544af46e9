package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/tapcard/internal/card"
)

// ErrInvalidState is returned when an operation is not allowed in the
// session's current state.
var ErrInvalidState = errors.New("invalid capture state")

// State is the capture session's position in its lifecycle.
type State int

const (
	// StateIdle: no identifier yet. The session may or may not be listening.
	StateIdle State = iota
	// StateCaptured: an identifier is frozen, awaiting Commit or Abandon.
	StateCaptured
	// StateCommitted: the card was inserted. Terminal until Reset.
	StateCommitted
	// StateAbandoned: the candidate was discarded. Terminal until Reset.
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCaptured:
		return "captured"
	case StateCommitted:
		return "committed"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Source is the tag reader. Events may keep arriving briefly after
// StopListening; the session discards them.
type Source interface {
	StartListening(onIdentifier func(identifier []byte))
	StopListening()
}

// Committer persists a captured card. *store.Store satisfies it.
type Committer interface {
	Insert(ctx context.Context, identifier card.Identifier, name string, color card.Color, texture []byte) (card.ID, error)
}

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator overrides the session id generator (UUIDv7 by default).
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Session) {
		s.ids = gen
	}
}

// WithLogger sets the logger (slog.Default() otherwise).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session is one enrollment attempt.
type Session struct {
	source    Source
	committer Committer
	ids       IDGenerator
	logger    *slog.Logger

	mu         sync.Mutex
	id         string
	state      State
	listening  bool
	generation uint64 // bumped per listening period; stale callbacks compare unequal
	identifier card.Identifier
	captured   chan struct{}
	done       chan struct{} // closed by Commit, Abandon and Reset
	doneClosed bool
	committed  card.ID
}

// New creates an Idle session that is not yet listening.
func New(source Source, committer Committer, opts ...Option) *Session {
	s := &Session{
		source:    source,
		committer: committer,
		ids:       UUIDv7Generator{},
		logger:    slog.Default(),
		captured:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = s.ids.Generate()
	return s
}

// ID returns the session correlation id.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Listening reports whether the session currently accepts identifiers.
func (s *Session) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// Identifier returns a copy of the frozen identifier. ok is false until an
// identifier has been captured, and again after Abandon or Reset.
func (s *Session) Identifier() (card.Identifier, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identifier == nil {
		return nil, false
	}
	return s.identifier.Clone(), true
}

// CommittedID returns the id of the inserted card once Committed.
func (s *Session) CommittedID() (card.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed, s.state == StateCommitted
}

// Captured returns a channel that is closed when an identifier is frozen.
// Reset replaces the channel; fetch it again afterwards.
func (s *Session) Captured() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captured
}

// Wait blocks until an identifier is captured, the session is committed,
// abandoned or reset, or ctx ends. It returns ErrInvalidState when the
// session ended without a captured identifier.
func (s *Session) Wait(ctx context.Context) (card.Identifier, error) {
	s.mu.Lock()
	captured, done := s.captured, s.done
	s.mu.Unlock()

	select {
	case <-captured:
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	ident, ok := s.Identifier()
	if !ok {
		return nil, fmt.Errorf("%w: session ended without a captured identifier", ErrInvalidState)
	}
	return ident, nil
}

// finishLocked releases Wait callers. s.mu must be held.
func (s *Session) finishLocked() {
	if !s.doneClosed {
		close(s.done)
		s.doneClosed = true
	}
}

// Start begins listening for identifiers. Calling Start while already
// listening is a no-op. Start is only valid while Idle.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot start while %s", ErrInvalidState, state)
	}
	if s.listening {
		s.mu.Unlock()
		return nil
	}
	s.listening = true
	s.generation++
	gen := s.generation
	id := s.id
	s.mu.Unlock()

	s.logger.Debug("capture listening", "session", id)
	// Outside the lock: a source may deliver synchronously from here.
	s.source.StartListening(func(identifier []byte) {
		s.observe(gen, identifier)
	})
	return nil
}

// Stop stops listening without leaving Idle. No-op when not listening.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.listening {
		s.mu.Unlock()
		return
	}
	s.listening = false
	id := s.id
	s.mu.Unlock()

	s.source.StopListening()
	s.logger.Debug("capture stopped listening", "session", id)
}

// observe is the reader callback. Only the first identifier of the current
// listening period is accepted.
func (s *Session) observe(gen uint64, identifier []byte) {
	s.mu.Lock()
	if gen != s.generation || !s.listening || s.state != StateIdle || len(identifier) == 0 {
		id, state := s.id, s.state
		s.mu.Unlock()
		s.logger.Debug("identifier ignored", "session", id, "state", state, "identifier", card.Identifier(identifier))
		return
	}

	s.identifier = card.Identifier(identifier).Clone()
	s.state = StateCaptured
	s.listening = false
	captured := s.captured
	id, ident := s.id, s.identifier
	s.mu.Unlock()

	s.source.StopListening()
	s.logger.Info("identifier captured", "session", id, "identifier", ident)
	// Closed last: a waiter resumes only after the reader is stopped and the
	// capture is logged.
	close(captured)
}

// Commit inserts the captured identifier with the given name, color and
// texture. The name is normalized and must not be empty.
//
// On a validation or committer error the session stays Captured and Commit
// may be retried. On success the session becomes Committed.
func (s *Session) Commit(ctx context.Context, name string, color card.Color, texture []byte) (card.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCaptured {
		return 0, fmt.Errorf("%w: cannot commit while %s", ErrInvalidState, s.state)
	}

	name = card.NormalizeName(name)
	if name == "" {
		return 0, fmt.Errorf("commit: %w", card.ErrEmptyName)
	}

	id, err := s.committer.Insert(ctx, s.identifier.Clone(), name, color, texture)
	if err != nil {
		s.logger.Warn("commit failed", "session", s.id, "error", err)
		return 0, err
	}

	s.state = StateCommitted
	s.committed = id
	s.finishLocked()
	s.logger.Info("card committed", "session", s.id, "card_id", id, "identifier", s.identifier, "name", name)
	return id, nil
}

// Abandon discards the candidate without touching storage. It is valid from
// Idle (listening stops) and Captured; repeating it is a no-op.
func (s *Session) Abandon() error {
	s.mu.Lock()
	switch s.state {
	case StateCommitted:
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot abandon a committed session", ErrInvalidState)
	case StateAbandoned:
		s.mu.Unlock()
		return nil
	}

	wasListening := s.listening
	s.listening = false
	s.identifier = nil
	s.state = StateAbandoned
	s.finishLocked()
	id := s.id
	s.mu.Unlock()

	if wasListening {
		s.source.StopListening()
	}
	s.logger.Info("capture abandoned", "session", id)
	return nil
}

// Reset returns the session to Idle (not listening) with a new id, so a new
// identifier can be captured after Start.
func (s *Session) Reset() {
	s.mu.Lock()
	wasListening := s.listening
	s.listening = false
	s.generation++
	s.state = StateIdle
	s.identifier = nil
	s.committed = 0
	s.captured = make(chan struct{})
	s.finishLocked()
	s.done = make(chan struct{})
	s.doneClosed = false
	s.id = s.ids.Generate()
	id := s.id
	s.mu.Unlock()

	if wasListening {
		s.source.StopListening()
	}
	s.logger.Debug("capture reset", "session", id)
}
