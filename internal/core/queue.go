package core

import "sort"

// OrderQueue tracks the lifecycle of orders that have not yet been
// assigned: a backlog not yet released (sorted by creation tick) and a
// pending pool of released orders awaiting assignment.
type OrderQueue struct {
	notReleased []*Order // ascending by CreationTick, then ID
	pending     []*Order
}

// NewOrderQueue builds a queue from the full order set, sorted by
// CreationTick and then ID so ready-order release is deterministic when
// several orders share a tick.
func NewOrderQueue(orders []*Order) *OrderQueue {
	backlog := make([]*Order, len(orders))
	copy(backlog, orders)
	sort.Slice(backlog, func(i, j int) bool {
		if backlog[i].CreationTick != backlog[j].CreationTick {
			return backlog[i].CreationTick < backlog[j].CreationTick
		}
		return backlog[i].ID < backlog[j].ID
	})
	return &OrderQueue{notReleased: backlog}
}

// Intake appends every order whose CreationTick has arrived to the pending
// pool.
func (q *OrderQueue) Intake(tick int) {
	i := 0
	for i < len(q.notReleased) && q.notReleased[i].CreationTick <= tick {
		q.pending = append(q.pending, q.notReleased[i])
		i++
	}
	q.notReleased = q.notReleased[i:]
}

// Pending returns the orders currently awaiting assignment. The returned
// slice must not be mutated by the caller.
func (q *OrderQueue) Pending() []*Order {
	return q.pending
}

// Take removes and returns the pending order with the given id, or nil if
// it is not (or no longer) pending.
func (q *OrderQueue) Take(id OrderID) *Order {
	for i, o := range q.pending {
		if o.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return o
		}
	}
	return nil
}

// PendingCount reports how many orders remain unassigned, released or not.
func (q *OrderQueue) PendingCount() int {
	return len(q.pending) + len(q.notReleased)
}
