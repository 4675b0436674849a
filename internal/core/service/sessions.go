package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/cart"
)

// A session owns one cart store. Its mutex makes each session a single
// logical writer.
type session struct {
	mu       sync.Mutex
	store    *cart.Store
	lastSeen time.Time
}

type sessions struct {
	mu    sync.Mutex
	m     map[uuid.UUID]*session
	clock func() time.Time
	ttl   time.Duration
}

func newSessions(clock func() time.Time, ttl time.Duration) *sessions {
	return &sessions{
		m:     make(map[uuid.UUID]*session),
		clock: clock,
		ttl:   ttl,
	}
}

func (ss *sessions) open() uuid.UUID {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	id := uuid.New()
	ss.m[id] = &session{
		store:    cart.NewStore(),
		lastSeen: ss.clock(),
	}
	return id
}

// get returns a live session and marks it as seen.
func (ss *sessions) get(id uuid.UUID) (*session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sess, ok := ss.m[id]
	if !ok {
		return nil, false
	}

	now := ss.clock()
	if ss.expired(sess, now) {
		delete(ss.m, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

func (ss *sessions) close(id uuid.UUID) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, ok := ss.m[id]; !ok {
		return false
	}
	delete(ss.m, id)
	return true
}

// sweep discards expired sessions and returns how many were dropped.
func (ss *sessions) sweep() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.clock()
	var n int
	for id, sess := range ss.m {
		if ss.expired(sess, now) {
			delete(ss.m, id)
			n++
		}
	}
	return n
}

func (ss *sessions) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.m)
}

func (ss *sessions) expired(sess *session, now time.Time) bool {
	return now.Sub(sess.lastSeen) > ss.ttl
}
