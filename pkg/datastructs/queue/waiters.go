package queue

// waiter is the channel a parked consumer blocks on. It has one slot so a
// signal never blocks the signalling goroutine.
type waiter chan struct{}

// waitList is the set of parked consumers, oldest first.
// It is guarded by the owning FIFO's mutex.
type waitList struct {
	waiters []waiter
}

// add registers a new parked consumer.
func (l *waitList) add() waiter {
	w := make(waiter, 1)
	l.waiters = append(l.waiters, w)
	return w
}

// signal wakes the oldest parked consumer, if any.
func (l *waitList) signal() bool {
	if len(l.waiters) == 0 {
		return false
	}

	w := l.waiters[0]
	l.waiters[0] = nil
	l.waiters = l.waiters[1:]
	if len(l.waiters) == 0 {
		l.waiters = nil
	}

	w <- struct{}{}
	return true
}

// remove unregisters w. Returns false if w was already signalled.
func (l *waitList) remove(w waiter) bool {
	for i, cur := range l.waiters {
		if cur != w {
			continue
		}
		copy(l.waiters[i:], l.waiters[i+1:])
		l.waiters[len(l.waiters)-1] = nil
		l.waiters = l.waiters[:len(l.waiters)-1]
		return true
	}
	return false
}

// len returns the number of parked consumers.
func (l *waitList) len() int {
	return len(l.waiters)
}
