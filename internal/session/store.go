package session

import (
	"sync"
)

// Store is a thread-safe in-memory index of live sessions. Connections come
// and go independently, so it uses sync.Map rather than a global lock.
type Store struct {
	sessions sync.Map // Key: session ID, Value: *Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Put adds s, replacing any session with the same ID.
func (st *Store) Put(s *Session) {
	st.sessions.Store(s.ID(), s)
}

// Get returns the session with the given ID.
func (st *Store) Get(id string) (*Session, bool) {
	v, ok := st.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Remove drops the session with the given ID and returns it.
func (st *Store) Remove(id string) (*Session, bool) {
	v, ok := st.sessions.LoadAndDelete(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Len returns the number of sessions.
func (st *Store) Len() int {
	n := 0
	st.sessions.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

// CloseAll closes and removes every session.
func (st *Store) CloseAll() {
	st.sessions.Range(func(k, v any) bool {
		st.sessions.Delete(k)
		v.(*Session).Close()
		return true
	})
}
