package chat

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hrygo/docshelf/chat/metrics"
	"github.com/hrygo/docshelf/store"
)

// State is the session position within a multi-step flow. A user without a
// session is idle.
type State int

const (
	// StateAwaitingCategoryChoice: one or more documents staged, waiting for
	// the user to pick an existing category, ask for a new one, or keep
	// sending documents.
	StateAwaitingCategoryChoice State = iota + 1
	// StateAwaitingNewCategoryName: waiting for the new category text.
	StateAwaitingNewCategoryName
	// StateAwaitingRetrievalCategory: waiting for a category to fetch.
	StateAwaitingRetrievalCategory
	// StateAwaitingDeletionCategory: waiting for a category to delete.
	StateAwaitingDeletionCategory
)

func (s State) String() string {
	switch s {
	case StateAwaitingCategoryChoice:
		return "awaiting_category_choice"
	case StateAwaitingNewCategoryName:
		return "awaiting_new_category_name"
	case StateAwaitingRetrievalCategory:
		return "awaiting_retrieval_category"
	case StateAwaitingDeletionCategory:
		return "awaiting_deletion_category"
	default:
		return "unknown"
	}
}

// Session is the ephemeral per-user state of an in-progress flow. It exists
// from the first event of a flow until the flow reaches a terminal action.
type Session struct {
	UserID       int64
	State        State
	PendingFiles []*store.FileRecord
	LastActive   time.Time
}

const cleanupCheckInterval = time.Minute

// SessionManager holds at most one live session per user and serializes
// event handling per user. Sessions of different users are independent.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	locks    map[int64]*sync.Mutex

	idleTimeout time.Duration
	done        chan struct{}
	closeOnce   sync.Once
}

// NewSessionManager creates a session manager. A positive idleTimeout starts
// a background loop evicting sessions abandoned mid-flow; zero disables
// eviction.
func NewSessionManager(idleTimeout time.Duration) *SessionManager {
	m := &SessionManager{
		sessions:    make(map[int64]*Session),
		locks:       make(map[int64]*sync.Mutex),
		idleTimeout: idleTimeout,
		done:        make(chan struct{}),
	}
	if idleTimeout > 0 {
		go m.cleanupLoop()
	}
	return m
}

// LockUser serializes dispatch for one user: a second event for the same
// user waits for the in-flight transition to finish. Returns the unlock
// function.
func (m *SessionManager) LockUser(userID int64) func() {
	m.mu.Lock()
	lock, ok := m.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Get returns the user's live session, refreshing its activity timestamp.
func (m *SessionManager) Get(userID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if ok {
		sess.LastActive = time.Now()
	}
	return sess, ok
}

// Start creates and registers a new session for the user, replacing any
// existing one.
func (m *SessionManager) Start(userID int64, state State) *Session {
	sess := &Session{
		UserID:     userID,
		State:      state,
		LastActive: time.Now(),
	}
	m.mu.Lock()
	m.sessions[userID] = sess
	m.mu.Unlock()
	return sess
}

// Finish destroys the user's session; the user is idle afterwards.
func (m *SessionManager) Finish(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}

// Close stops the eviction loop.
func (m *SessionManager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

func (m *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(cleanupCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.done:
			return
		}
	}
}

// evictIdle discards sessions whose flow was abandoned. Pending files of an
// evicted upload flow are dropped with it.
func (m *SessionManager) evictIdle() {
	cutoff := time.Now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, sess := range m.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(m.sessions, userID)
			metrics.SessionsEvicted.Inc()
			slog.Info("evicted idle session",
				"user_id", userID,
				"state", sess.State.String(),
				"pending_files", len(sess.PendingFiles),
			)
		}
	}
}
