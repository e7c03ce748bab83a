/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package riotapi

// itemQueue is a double-ended queue of pending items.
// New items are pushed to the tail and taken from the tail (LIFO), retried items are put to the head.
type itemQueue struct {
	items []*queueItem
}

func (q *itemQueue) push(it *queueItem) {
	q.items = append(q.items, it)
}

func (q *itemQueue) pushFront(it *queueItem) {
	q.items = append(q.items, nil)
	copy(q.items[1:], q.items)
	q.items[0] = it
}

func (q *itemQueue) pop() *queueItem {
	n := len(q.items)
	if n == 0 {
		return nil
	}
	it := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	return it
}

func (q *itemQueue) len() int {
	return len(q.items)
}

func (q *itemQueue) takeAll() []*queueItem {
	items := q.items
	q.items = nil
	return items
}
