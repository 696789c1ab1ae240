package sales

import "sync"

// productLocks hands out one mutex per product id. Entries are dropped
// once no goroutine holds or waits for them.
type productLocks struct {
	mu    sync.Mutex
	locks map[uint]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[uint]*refLock)}
}

// lock blocks until id is free and returns its release func.
func (p *productLocks) lock(id uint) (unlock func()) {
	p.mu.Lock()
	l, ok := p.locks[id]
	if !ok {
		l = &refLock{}
		p.locks[id] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, id)
		}
		p.mu.Unlock()
	}
}

func (p *productLocks) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.locks)
}
