package room

import (
	"time"

	"github.com/coder/quartz"
)

// roomOwner tags timers that belong to the table rather than a member.
const roomOwner = ""

type pendingTimer struct {
	owner string
	timer *quartz.Timer
	fn    func()
}

// schedule runs fn on the actor after d. A timer that is cancelled after it
// fired but before the actor picked it up does nothing.
func (r *Room) schedule(owner string, d time.Duration, fn func()) {
	r.timerID++
	id := r.timerID
	t := r.clock.AfterFunc(d, func() {
		r.post(func() { r.fire(id) })
	}, "room", r.code)
	r.timers[id] = &pendingTimer{owner: owner, timer: t, fn: fn}
}

func (r *Room) fire(id uint64) {
	pt, ok := r.timers[id]
	if !ok {
		return
	}
	delete(r.timers, id)
	pt.fn()
}

func (r *Room) cancelOwner(owner string) {
	for id, pt := range r.timers {
		if pt.owner == owner {
			pt.timer.Stop()
			delete(r.timers, id)
		}
	}
}

func (r *Room) stopTimers() {
	for id, pt := range r.timers {
		pt.timer.Stop()
		delete(r.timers, id)
	}
}
