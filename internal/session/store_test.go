package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetRemove(t *testing.T) {
	f, _ := newFactory(t, nil)
	s := openSession(t, f)
	st := NewStore()

	_, ok := st.Get(s.ID())
	assert.False(t, ok)

	st.Put(s)
	got, ok := st.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, st.Len())

	removed, ok := st.Remove(s.ID())
	require.True(t, ok)
	assert.Same(t, s, removed)
	assert.Equal(t, 0, st.Len())

	_, ok = st.Remove(s.ID())
	assert.False(t, ok)
}

func TestStore_CloseAll(t *testing.T) {
	f, _ := newFactory(t, nil)
	st := NewStore()
	var sessions []*Session
	for range 3 {
		s := openSession(t, f)
		sessions = append(sessions, s)
		st.Put(s)
	}

	st.CloseAll()

	assert.Equal(t, 0, st.Len())
	for _, s := range sessions {
		select {
		case <-s.Done():
		default:
			t.Errorf("session %s still running", s.ID())
		}
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	st := NewStore()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := &Session{id: fmt.Sprintf("s%d", i)}
			st.Put(s)
			got, ok := st.Get(s.id)
			assert.True(t, ok)
			assert.Same(t, s, got)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, st.Len())
}
