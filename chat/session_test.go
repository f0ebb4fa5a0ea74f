package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewSessionManager(0)

	_, ok := m.Get(1)
	assert.False(t, ok)

	sess := m.Start(1, StateAwaitingCategoryChoice)
	assert.Equal(t, int64(1), sess.UserID)

	got, ok := m.Get(1)
	require.True(t, ok)
	assert.Same(t, sess, got)

	// Starting again replaces the previous session outright.
	replaced := m.Start(1, StateAwaitingRetrievalCategory)
	got, ok = m.Get(1)
	require.True(t, ok)
	assert.Same(t, replaced, got)
	assert.Equal(t, StateAwaitingRetrievalCategory, got.State)

	m.Finish(1)
	_, ok = m.Get(1)
	assert.False(t, ok)
}

func TestGetRefreshesActivity(t *testing.T) {
	m := NewSessionManager(0)

	sess := m.Start(1, StateAwaitingCategoryChoice)
	sess.LastActive = time.Now().Add(-time.Hour)

	_, ok := m.Get(1)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), sess.LastActive, time.Minute)
}

func TestEvictIdle(t *testing.T) {
	m := NewSessionManager(time.Minute)
	t.Cleanup(m.Close)

	stale := m.Start(1, StateAwaitingCategoryChoice)
	stale.LastActive = time.Now().Add(-2 * time.Minute)
	m.Start(2, StateAwaitingCategoryChoice)

	m.evictIdle()

	_, ok := m.Get(1)
	assert.False(t, ok)
	_, ok = m.Get(2)
	assert.True(t, ok)
}

func TestLockUserSerializes(t *testing.T) {
	m := NewSessionManager(0)

	unlock := m.LockUser(1)

	acquired := make(chan struct{})
	go func() {
		u := m.LockUser(1)
		u()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestLockUserIndependentUsers(t *testing.T) {
	m := NewSessionManager(0)

	unlock := m.LockUser(1)
	defer unlock()

	// Another user's lock is a different mutex and never blocks.
	other := m.LockUser(2)
	other()
}
