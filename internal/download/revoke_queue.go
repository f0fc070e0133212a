package download

import (
	"sync"
	"time"
)

// RevokeQueue is a Trigger scheduler that remembers revokes until they run.
// Timers do not fire while a Lambda execution environment is frozen, so the
// next invocation calls RunDue to catch up on anything already overdue.
type RevokeQueue struct {
	mu      sync.Mutex
	pending map[uint64]*pendingRevoke
	seq     uint64
	now     func() time.Time
}

type pendingRevoke struct {
	due   time.Time
	fn    func()
	timer *time.Timer
}

func NewRevokeQueue() *RevokeQueue {
	return &RevokeQueue{pending: make(map[uint64]*pendingRevoke), now: time.Now}
}

// Schedule runs fn after delay, or earlier from RunDue once delay has passed.
// fn runs exactly once.
func (q *RevokeQueue) Schedule(delay time.Duration, fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	id := q.seq
	p := &pendingRevoke{due: q.now().Add(delay), fn: fn}
	q.pending[id] = p
	p.timer = time.AfterFunc(delay, func() { q.run(id) })
}

// RunDue runs every revoke whose delay has elapsed and reports how many ran.
func (q *RevokeQueue) RunDue() int {
	return q.runWhere(func(p *pendingRevoke, now time.Time) bool { return !p.due.After(now) })
}

// Flush runs every pending revoke now. Servers call it on shutdown.
func (q *RevokeQueue) Flush() int {
	return q.runWhere(func(*pendingRevoke, time.Time) bool { return true })
}

func (q *RevokeQueue) runWhere(match func(p *pendingRevoke, now time.Time) bool) int {
	q.mu.Lock()
	now := q.now()
	var due []*pendingRevoke
	for id, p := range q.pending {
		if match(p, now) {
			delete(q.pending, id)
			due = append(due, p)
		}
	}
	q.mu.Unlock()

	for _, p := range due {
		p.timer.Stop()
		p.fn()
	}
	return len(due)
}

// Pending reports how many revokes have not run yet.
func (q *RevokeQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *RevokeQueue) run(id uint64) {
	q.mu.Lock()
	p, ok := q.pending[id]
	delete(q.pending, id)
	q.mu.Unlock()
	if ok {
		p.fn()
	}
}
