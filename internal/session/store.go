package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = 12 * time.Hour

type sessionState struct {
	projects map[string]*ExpandedSet
	lastSeen time.Time
}

// Store holds the expanded sets of every session, keyed by session and project.
type Store struct {
	mutex       sync.Mutex
	sessions    map[string]*sessionState
	idleTimeout time.Duration
	now         func() time.Time
}

// NewStore returns an empty store. A non-positive idleTimeout selects DefaultIdleTimeout.
func NewStore(idleTimeout time.Duration) *Store {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Store{
		sessions:    make(map[string]*sessionState),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether identifier looks like one issued by NewSessionID.
func ValidSessionID(identifier string) bool {
	_, parseError := uuid.Parse(identifier)
	return parseError == nil
}

// Expanded returns the expanded set of project within session, creating both on first use.
func (store *Store) Expanded(sessionID string, project string) *ExpandedSet {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	state, found := store.sessions[sessionID]
	if !found {
		state = &sessionState{projects: make(map[string]*ExpandedSet)}
		store.sessions[sessionID] = state
	}
	state.lastSeen = store.now()
	set, found := state.projects[project]
	if !found {
		set = NewExpandedSet()
		state.projects[project] = set
	}
	return set
}

// Existing returns the expanded set of project within session without creating either.
// A found session has its idle clock reset.
func (store *Store) Existing(sessionID string, project string) (*ExpandedSet, bool) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	state, found := store.sessions[sessionID]
	if !found {
		return nil, false
	}
	state.lastSeen = store.now()
	set, found := state.projects[project]
	return set, found
}

// Len reports the number of live sessions.
func (store *Store) Len() int {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	return len(store.sessions)
}

// Prune forgets sessions idle for longer than the idle timeout and returns how many were removed.
func (store *Store) Prune() int {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	cutoff := store.now().Add(-store.idleTimeout)
	removed := 0
	for sessionID, state := range store.sessions {
		if state.lastSeen.Before(cutoff) {
			delete(store.sessions, sessionID)
			removed++
		}
	}
	return removed
}
