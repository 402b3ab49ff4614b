package handlers

import "sync"

// qualifiedNames serialises each uniqueness check with the create or rename that follows
// it. It is shared by every handler in the process since servers may share one store.
var qualifiedNames = newNameLocks()

type nameLock struct {
	mu   sync.Mutex
	refs int
}

type nameLocks struct {
	mu   sync.Mutex
	held map[string]*nameLock
}

func newNameLocks() *nameLocks {
	return &nameLocks{held: map[string]*nameLock{}}
}

// lock blocks until name is free and returns the matching unlock. Locks are not reentrant.
func (l *nameLocks) lock(name string) func() {
	l.mu.Lock()
	nl, ok := l.held[name]
	if !ok {
		nl = &nameLock{}
		l.held[name] = nl
	}
	nl.refs++
	l.mu.Unlock()

	nl.mu.Lock()
	return func() {
		nl.mu.Unlock()
		l.mu.Lock()
		if nl.refs--; nl.refs == 0 {
			delete(l.held, name)
		}
		l.mu.Unlock()
	}
}

func (l *nameLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
