// Package interview manages the interview-preparation flow: a question set
// generated at most once per session from the shared job description, and an
// append-only question/answer log whose entries are filled in by the agent
// service after an optimistic placeholder.
package interview

import (
	"context"
	"errors"
	"sync"

	"jobmatch-backend/internal/jobcontext"
	"jobmatch-backend/internal/remote"
	"jobmatch-backend/internal/session"
	"jobmatch-backend/internal/shared/telemetry"
)

// State describes the question-generation lifecycle for one session.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

const (
	// PlaceholderAnswer is written optimistically when a question is
	// submitted, before the agent's answer arrives.
	PlaceholderAnswer = "..."
	// failureAnswer replaces the placeholder when the answer request
	// fails. The log keeps growing; errors never abort the session.
	failureAnswer = "Something went wrong. Try again."
)

// ErrEmptyQuestion reports a submit call without a question.
var ErrEmptyQuestion = errors.New("question is required")

// Entry is one exchange in the conversation log.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Ticket binds a submitted question to its log slot so a late or
// out-of-order response still lands on the right entry.
type Ticket struct {
	SessionID string
	Index     int
}

// AgentClient is the part of the agent service the coordinator needs.
type AgentClient interface {
	GenerateQuestions(ctx context.Context, jobDescription string) ([]remote.QA, error)
	Ask(ctx context.Context, question string) (string, error)
}

// Coordinator owns the questions and qaLog store keys.
type Coordinator struct {
	Store session.Store
	Jobs  *jobcontext.Context
	Agent AgentClient

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	states map[string]State
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(store session.Store, jobs *jobcontext.Context, agent AgentClient) *Coordinator {
	return &Coordinator{
		Store:  store,
		Jobs:   jobs,
		Agent:  agent,
		locks:  make(map[string]*sync.Mutex),
		states: make(map[string]State),
	}
}

// EnsureQuestions returns the session's question set, generating it if
// needed. A cached set short-circuits generation, so the agent is asked at
// most once per session; a failed attempt leaves the cache unset so an
// explicit retry can still succeed. With no job description published the
// flow stays idle.
func (c *Coordinator) EnsureQuestions(ctx context.Context, sessionID string) (State, []remote.QA, error) {
	lock := c.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	var cached []remote.QA
	ok, err := session.ReadJSON(ctx, c.Store, sessionID, session.KeyQuestions, &cached)
	if err != nil {
		return c.setState(sessionID, StateFailed), nil, err
	}
	if ok {
		return c.setState(sessionID, StateLoaded), cached, nil
	}

	handle, ok := c.Jobs.GetJobDescription(sessionID)
	if !ok {
		return c.setState(sessionID, StateIdle), nil, nil
	}

	c.setState(sessionID, StateLoading)
	questions, err := c.Agent.GenerateQuestions(ctx, handle.Text)
	if err != nil {
		return c.setState(sessionID, StateFailed), nil, err
	}

	if err := session.WriteJSON(ctx, c.Store, sessionID, session.KeyQuestions, questions); err != nil {
		return c.setState(sessionID, StateFailed), nil, err
	}
	return c.setState(sessionID, StateLoaded), questions, nil
}

// QuestionState reports the current generation state without triggering
// generation.
func (c *Coordinator) QuestionState(sessionID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[sessionID]; ok {
		return st
	}
	return StateIdle
}

// Submit appends the question to the conversation log with a placeholder
// answer and persists it immediately, so a reload mid-flight still shows
// the pending exchange. The returned ticket captures the entry's index at
// submission time.
func (c *Coordinator) Submit(ctx context.Context, sessionID, question string) (Ticket, error) {
	if question == "" {
		return Ticket{}, ErrEmptyQuestion
	}

	lock := c.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	log, err := c.readLog(ctx, sessionID)
	if err != nil {
		return Ticket{}, err
	}
	log = append(log, Entry{Question: question, Answer: PlaceholderAnswer})
	if err := session.WriteJSON(ctx, c.Store, sessionID, session.KeyQALog, log); err != nil {
		return Ticket{}, err
	}
	return Ticket{SessionID: sessionID, Index: len(log) - 1}, nil
}

// Resolve fetches the agent's answer for a submitted question and writes it
// into the slot the ticket points at. The request carries the question text
// alone; a failure becomes a fixed user-visible string instead of an error.
// Writes that arrive after the log was cleared, or target a slot that was
// already resolved, are discarded.
func (c *Coordinator) Resolve(ctx context.Context, ticket Ticket, question string) (Entry, bool) {
	answer, err := c.Agent.Ask(ctx, question)
	if err != nil {
		telemetry.Warn("interview.answer_failed", map[string]any{
			"session_id": ticket.SessionID,
			"index":      ticket.Index,
			"error":      err.Error(),
		})
		answer = failureAnswer
	}

	lock := c.sessionLock(ticket.SessionID)
	lock.Lock()
	defer lock.Unlock()

	var log []Entry
	ok, err := session.ReadJSON(ctx, c.Store, ticket.SessionID, session.KeyQALog, &log)
	if err != nil || !ok || ticket.Index >= len(log) {
		// The session ended (or the log was cleared) while the answer was
		// in flight; the write must not revive the purged key.
		telemetry.Info("interview.answer_discarded", map[string]any{
			"session_id": ticket.SessionID,
			"index":      ticket.Index,
		})
		return Entry{}, false
	}
	if log[ticket.Index].Answer != PlaceholderAnswer {
		return Entry{}, false
	}

	log[ticket.Index].Answer = answer
	if err := session.WriteJSON(ctx, c.Store, ticket.SessionID, session.KeyQALog, log); err != nil {
		telemetry.Error("interview.log_persist_failed", map[string]any{
			"session_id": ticket.SessionID,
			"index":      ticket.Index,
			"error":      err.Error(),
		})
		return Entry{}, false
	}
	return log[ticket.Index], true
}

// Log returns the session's conversation log in submission order.
func (c *Coordinator) Log(ctx context.Context, sessionID string) ([]Entry, error) {
	lock := c.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	return c.readLog(ctx, sessionID)
}

// Forget drops in-process bookkeeping for an ended session. Registered as a
// session-end hook; safe to fire more than once.
func (c *Coordinator) Forget(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, sessionID)
	delete(c.states, sessionID)
}

func (c *Coordinator) readLog(ctx context.Context, sessionID string) ([]Entry, error) {
	var log []Entry
	if _, err := session.ReadJSON(ctx, c.Store, sessionID, session.KeyQALog, &log); err != nil {
		return nil, err
	}
	return log, nil
}

func (c *Coordinator) sessionLock(sessionID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[sessionID] = lock
	}
	return lock
}

func (c *Coordinator) setState(sessionID string, st State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[sessionID] = st
	return st
}
