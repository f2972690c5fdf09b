package inventory

import "sync"

// articleLocks hands out one mutex per article id. Entries are dropped once
// nobody holds or waits for them.
type articleLocks struct {
	mu    sync.Mutex
	locks map[uint]*articleLock
}

type articleLock struct {
	mu   sync.Mutex
	refs int
}

func newArticleLocks() *articleLocks {
	return &articleLocks{locks: make(map[uint]*articleLock)}
}

// lock blocks until the article is exclusively held and returns the release func.
func (l *articleLocks) lock(id uint) func() {
	l.mu.Lock()
	al, ok := l.locks[id]
	if !ok {
		al = &articleLock{}
		l.locks[id] = al
	}
	al.refs++
	l.mu.Unlock()

	al.mu.Lock()
	return func() {
		al.mu.Unlock()
		l.mu.Lock()
		al.refs--
		if al.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *articleLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
