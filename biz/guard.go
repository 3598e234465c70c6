package biz

import (
	"github.com/sasha-s/go-deadlock"
)

/*
InFlight
tracks users with a request in progress. TryAcquire must be atomic: of two concurrent
calls for the same id exactly one returns true.
*/
type InFlight interface {
	TryAcquire(userID string) bool
	Release(userID string)
}

type memInFlight struct {
	lock  deadlock.Mutex
	users map[string]struct{}
}

func NewInFlight() InFlight {
	return &memInFlight{users: make(map[string]struct{})}
}

func (g *memInFlight) TryAcquire(userID string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if _, ok := g.users[userID]; ok {
		return false
	}
	g.users[userID] = struct{}{}
	return true
}

func (g *memInFlight) Release(userID string) {
	g.lock.Lock()
	delete(g.users, userID)
	g.lock.Unlock()
}
